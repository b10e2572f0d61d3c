package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

type auditLogReader interface {
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error)
}

// AuditLogService exposes the audit trail to administrators.
type AuditLogService struct {
	repo   auditLogReader
	logger *zap.Logger
}

// NewAuditLogService constructs an AuditLogService.
func NewAuditLogService(repo auditLogReader, logger *zap.Logger) *AuditLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogService{repo: repo, logger: logger}
}

// List returns one page of audit entries, newest first.
func (s *AuditLogService) List(ctx context.Context, query dto.AuditLogQuery) ([]models.AuditLog, *models.Pagination, error) {
	filter := models.AuditLogFilter{
		ActorID:    strings.TrimSpace(query.ActorID),
		Action:     strings.ToUpper(strings.TrimSpace(query.Action)),
		Resource:   strings.TrimSpace(query.Resource),
		ResourceID: strings.TrimSpace(query.ResourceID),
	}
	if raw := strings.TrimSpace(query.From); raw != "" {
		from, err := time.Parse(sessionDateLayout, raw)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
		}
		filter.From = from
	}
	if raw := strings.TrimSpace(query.To); raw != "" {
		to, err := time.Parse(sessionDateLayout, raw)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
		}
		filter.To = to.AddDate(0, 0, 1)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "from must not be after to")
	}
	filter.Page, filter.PageSize = resultPage(query.Page, query.PageSize)

	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list audit logs", zap.Error(err))
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}
