package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/grading"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

type gradingBandRepository interface {
	ListActive(ctx context.Context) ([]models.GradingBand, error)
	FindByID(ctx context.Context, id string) (*models.GradingBand, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, bands ...*models.GradingBand) error
	Update(ctx context.Context, band *models.GradingBand) error
	Deactivate(ctx context.Context, id string) error
}

// GradingScaleService administers grading bands and serves the scale used to
// derive grades.
type GradingScaleService struct {
	repo   gradingBandRepository
	cache  *CacheService
	ttl    time.Duration
	audit  auditLogger
	logger *zap.Logger
}

// NewGradingScaleService constructs a GradingScaleService. cache may be nil.
func NewGradingScaleService(repo gradingBandRepository, cache *CacheService, ttl time.Duration, audit auditLogger, logger *zap.Logger) *GradingScaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingScaleService{repo: repo, cache: cache, ttl: ttl, audit: audit, logger: logger}
}

// List returns active bands, highest first.
func (s *GradingScaleService) List(ctx context.Context) ([]models.GradingBand, error) {
	bands, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grading bands")
	}
	return bands, nil
}

// ActiveScale returns the configured scale, or the built-in one when no band
// is configured.
func (s *GradingScaleService) ActiveScale(ctx context.Context) (grading.Scale, error) {
	var cached []grading.Band
	if s.cache.Get(ctx, cacheKeyGradingScale, &cached) && len(cached) > 0 {
		return grading.NewScale(cached), nil
	}

	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return grading.Scale{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading scale")
	}
	if len(rows) == 0 {
		return grading.Default(), nil
	}
	bands := make([]grading.Band, len(rows))
	for i, row := range rows {
		bands[i] = row.Band()
	}
	s.cache.Set(ctx, cacheKeyGradingScale, bands, s.ttl)
	return grading.NewScale(bands), nil
}

// Create adds a band that must not overlap any active band.
func (s *GradingScaleService) Create(ctx context.Context, req dto.GradingBandRequest, actor models.Actor) (*models.GradingBand, error) {
	band, err := bandFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoOverlap(ctx, band, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, band); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grading band")
	}
	s.invalidate(ctx)
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      models.AuditActionGradingCreate,
		Resource:    "grading_band",
		ResourceID:  &band.ID,
		Description: describeBand(band),
		NewValues:   auditPayload(band),
	})
	return band, nil
}

// Update replaces the bounds and grade of an active band.
func (s *GradingScaleService) Update(ctx context.Context, id string, req dto.GradingBandRequest, actor models.Actor) (*models.GradingBand, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grading band not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading band")
	}
	if !existing.IsActive {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "grading band not found")
	}
	band, err := bandFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoOverlap(ctx, band, id); err != nil {
		return nil, err
	}
	band.ID = id
	band.IsActive = true
	band.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, band); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grading band not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grading band")
	}
	s.invalidate(ctx)
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      models.AuditActionGradingUpdate,
		Resource:    "grading_band",
		ResourceID:  &band.ID,
		Description: describeBand(band),
		OldValues:   auditPayload(existing),
		NewValues:   auditPayload(band),
	})
	return band, nil
}

// Delete deactivates a band.
func (s *GradingScaleService) Delete(ctx context.Context, id string, actor models.Actor) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grading band not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grading band")
	}
	s.invalidate(ctx)
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      models.AuditActionGradingDelete,
		Resource:    "grading_band",
		ResourceID:  &id,
		Description: "deactivated grading band",
	})
	return nil
}

// InitializeDefaults seeds the built-in table into an empty scale.
func (s *GradingScaleService) InitializeDefaults(ctx context.Context, actor models.Actor) ([]models.GradingBand, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect grading scale")
	}
	if count > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "grading scale already initialized")
	}

	defaults := grading.DefaultBands()
	rows := make([]*models.GradingBand, len(defaults))
	for i, band := range defaults {
		rows[i] = &models.GradingBand{MinScore: band.MinScore, MaxScore: band.MaxScore, Grade: band.Grade, GradePoint: band.GradePoint}
	}
	if err := s.repo.Create(ctx, rows...); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed grading scale")
	}
	s.invalidate(ctx)
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      models.AuditActionGradingDefaults,
		Resource:    "grading_band",
		Description: fmt.Sprintf("seeded %d default grading bands", len(rows)),
	})

	result := make([]models.GradingBand, len(rows))
	for i, row := range rows {
		result[i] = *row
	}
	return result, nil
}

func (s *GradingScaleService) ensureNoOverlap(ctx context.Context, band *models.GradingBand, excludeID string) error {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading bands")
	}
	others := make([]grading.Band, 0, len(active))
	for _, row := range active {
		if row.ID == excludeID {
			continue
		}
		others = append(others, row.Band())
	}
	if clash, ok := grading.FirstOverlap(band.Band(), others); ok {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("band overlaps %s (%g-%g)", clash.Grade, clash.MinScore, clash.MaxScore))
	}
	return nil
}

func (s *GradingScaleService) invalidate(ctx context.Context) {
	s.cache.Delete(ctx, cacheKeyGradingScale)
}

func bandFromRequest(req dto.GradingBandRequest) (*models.GradingBand, error) {
	if req.MinScore == nil || req.MaxScore == nil || req.GradePoint == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "minScore, maxScore and gradePoint are required")
	}
	band := &models.GradingBand{
		MinScore:   *req.MinScore,
		MaxScore:   *req.MaxScore,
		Grade:      strings.ToUpper(strings.TrimSpace(req.Grade)),
		GradePoint: *req.GradePoint,
	}
	if err := grading.ValidateBand(band.Band()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return band, nil
}

func describeBand(band *models.GradingBand) string {
	return fmt.Sprintf("%s %g-%g (%g)", band.Grade, band.MinScore, band.MaxScore, band.GradePoint)
}
