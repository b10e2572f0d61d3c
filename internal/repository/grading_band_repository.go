package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-processing-api/internal/models"
)

const gradingBandColumns = `id, min_score, max_score, grade, grade_point, is_active, created_at, updated_at`

// GradingBandRepository persists the grading scale.
type GradingBandRepository struct {
	db *sqlx.DB
}

// NewGradingBandRepository constructs the repository.
func NewGradingBandRepository(db *sqlx.DB) *GradingBandRepository {
	return &GradingBandRepository{db: db}
}

// ListActive returns active bands, highest minimum score first.
func (r *GradingBandRepository) ListActive(ctx context.Context) ([]models.GradingBand, error) {
	query := `SELECT ` + gradingBandColumns + ` FROM grading_bands WHERE is_active = TRUE ORDER BY min_score DESC`
	var bands []models.GradingBand
	if err := r.db.SelectContext(ctx, &bands, query); err != nil {
		return nil, fmt.Errorf("list grading bands: %w", err)
	}
	return bands, nil
}

// FindByID fetches one band, active or not.
func (r *GradingBandRepository) FindByID(ctx context.Context, id string) (*models.GradingBand, error) {
	var band models.GradingBand
	if err := r.db.GetContext(ctx, &band, `SELECT `+gradingBandColumns+` FROM grading_bands WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &band, nil
}

// Count returns the number of bands ever created.
func (r *GradingBandRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM grading_bands`); err != nil {
		return 0, fmt.Errorf("count grading bands: %w", err)
	}
	return count, nil
}

// Create inserts the given bands in one transaction.
func (r *GradingBandRepository) Create(ctx context.Context, bands ...*models.GradingBand) error {
	if len(bands) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin grading band tx: %w", err)
	}
	const query = `INSERT INTO grading_bands (id, min_score, max_score, grade, grade_point, is_active, created_at, updated_at)
VALUES (:id, :min_score, :max_score, :grade, :grade_point, :is_active, :created_at, :updated_at)`
	now := time.Now().UTC()
	for _, band := range bands {
		if band.ID == "" {
			band.ID = uuid.NewString()
		}
		band.IsActive = true
		band.CreatedAt = now
		band.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, band); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("create grading band: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grading band tx: %w", err)
	}
	return nil
}

// Update rewrites an active band.
func (r *GradingBandRepository) Update(ctx context.Context, band *models.GradingBand) error {
	band.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grading_bands SET min_score = :min_score, max_score = :max_score, grade = :grade,
grade_point = :grade_point, updated_at = :updated_at
WHERE id = :id AND is_active = TRUE`
	return execAffectingOne(ctx, r.db, query, band, "update grading band")
}

// Deactivate soft deletes a band.
func (r *GradingBandRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE grading_bands SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate grading band: %w", err)
	}
	return requireAffected(res, "deactivate grading band")
}
