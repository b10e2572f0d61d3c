package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-processing-api/internal/models"
)

// AuditRepository appends audit trail records.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog stores an audit log entry.
func (r *AuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	if origin, ok := models.RequestOriginFrom(ctx); ok {
		if log.IPAddress == nil && origin.IPAddress != "" {
			log.IPAddress = strPtr(origin.IPAddress)
		}
		if log.UserAgent == nil && origin.UserAgent != "" {
			log.UserAgent = strPtr(origin.UserAgent)
		}
	}
	const query = `INSERT INTO audit_logs (id, actor_id, action, resource, resource_id, description, old_values, new_values, ip_address, user_agent, created_at)
VALUES (:id, :actor_id, :action, :resource, :resource_id, :description, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns one page of audit entries, newest first, with the total matching count.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error) {
	conditions := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)
	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.Resource != "" {
		args = append(args, filter.Resource)
		conditions = append(conditions, fmt.Sprintf("resource = $%d", len(args)))
	}
	if filter.ResourceID != "" {
		args = append(args, filter.ResourceID)
		conditions = append(conditions, fmt.Sprintf("resource_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM audit_logs"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := `SELECT id, actor_id, action, resource, resource_id, description, old_values, new_values, ip_address, user_agent, created_at
FROM audit_logs` + where + fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d", size, (page-1)*size)

	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}
