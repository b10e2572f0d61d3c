package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-processing-api/internal/models"
)

const gpaColumns = `id, student_id, session, semester, gpa, cgpa, total_credit_units, total_quality_points,
cumulative_credit_units, cumulative_quality_points, computed_at`

// GPARepository stores one GPA snapshot per student, session and semester.
type GPARepository struct {
	db *sqlx.DB
}

// NewGPARepository constructs the repository.
func NewGPARepository(db *sqlx.DB) *GPARepository {
	return &GPARepository{db: db}
}

// Upsert writes the snapshot for its student term. computed_at only moves when a
// figure changed, so recomputing unchanged inputs leaves the row as it was.
func (r *GPARepository) Upsert(ctx context.Context, record *models.GPARecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	const query = `INSERT INTO gpa_records (id, student_id, session, semester, gpa, cgpa, total_credit_units,
total_quality_points, cumulative_credit_units, cumulative_quality_points, computed_at)
VALUES (:id, :student_id, :session, :semester, :gpa, :cgpa, :total_credit_units,
:total_quality_points, :cumulative_credit_units, :cumulative_quality_points, :computed_at)
ON CONFLICT (student_id, session, semester)
DO UPDATE SET gpa = EXCLUDED.gpa, cgpa = EXCLUDED.cgpa, total_credit_units = EXCLUDED.total_credit_units,
              total_quality_points = EXCLUDED.total_quality_points,
              cumulative_credit_units = EXCLUDED.cumulative_credit_units,
              cumulative_quality_points = EXCLUDED.cumulative_quality_points,
              computed_at = CASE
                  WHEN (gpa_records.gpa, gpa_records.cgpa, gpa_records.total_credit_units, gpa_records.total_quality_points,
                        gpa_records.cumulative_credit_units, gpa_records.cumulative_quality_points)
                       IS DISTINCT FROM
                       (EXCLUDED.gpa, EXCLUDED.cgpa, EXCLUDED.total_credit_units, EXCLUDED.total_quality_points,
                        EXCLUDED.cumulative_credit_units, EXCLUDED.cumulative_quality_points)
                  THEN EXCLUDED.computed_at
                  ELSE gpa_records.computed_at
              END
RETURNING ` + gpaColumns

	rows, err := r.db.NamedQueryContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("upsert gpa: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.StructScan(record); err != nil {
			return fmt.Errorf("scan gpa: %w", err)
		}
	}
	return rows.Err()
}

// Get returns the snapshot for a student term.
func (r *GPARepository) Get(ctx context.Context, term models.StudentTerm) (*models.GPARecord, error) {
	query := `SELECT ` + gpaColumns + ` FROM gpa_records WHERE student_id = $1 AND session = $2 AND semester = $3`
	var record models.GPARecord
	if err := r.db.GetContext(ctx, &record, query, term.StudentID, term.Session, term.Semester); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByStudent returns all snapshots of a student ordered by session then semester.
func (r *GPARepository) ListByStudent(ctx context.Context, studentID string) ([]models.GPARecord, error) {
	query := `SELECT ` + gpaColumns + ` FROM gpa_records WHERE student_id = $1
ORDER BY session ASC, CASE semester WHEN 'First' THEN 1 ELSE 2 END ASC`
	var records []models.GPARecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list gpa records: %w", err)
	}
	return records, nil
}
