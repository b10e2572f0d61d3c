package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/result-processing-api/internal/models"
)

// ReportRepository reads finalized results for aggregate reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// DepartmentRows returns the finalized results of courses owned by department
// for a session and, optionally, one semester.
func (r *ReportRepository) DepartmentRows(ctx context.Context, department, session string, semester models.Semester) ([]models.DepartmentReportRow, error) {
	clauses := []string{"c.department = $1", "r.session = $2", "r.status = ANY($3)"}
	args := []interface{}{department, session, pq.Array(statusStrings(models.FinalizedStatuses))}
	if semester != "" {
		args = append(args, semester)
		clauses = append(clauses, fmt.Sprintf("r.semester = $%d", len(args)))
	}
	query := `SELECT r.course_id, c.course_code, c.title AS course_title, r.grade, r.grade_point
FROM results r
JOIN courses c ON c.id = r.course_id
WHERE ` + strings.Join(clauses, " AND ") + `
ORDER BY c.course_code ASC`

	var rows []models.DepartmentReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("department report rows: %w", err)
	}
	return rows, nil
}
