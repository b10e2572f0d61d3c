package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
	"github.com/noah-isme/result-processing-api/pkg/jobs"
)

// GPARefreshJobType labels retry jobs on the GPA queue.
const GPARefreshJobType = "gpa.refresh"

type gpaResultReader interface {
	ListCreditedGrades(ctx context.Context, studentID string) ([]models.CreditedGrade, error)
	ListFinalizedTerms(ctx context.Context, session string) ([]models.StudentTerm, error)
}

type gpaRecordRepository interface {
	Upsert(ctx context.Context, record *models.GPARecord) error
	Get(ctx context.Context, term models.StudentTerm) (*models.GPARecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.GPARecord, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type activeSessionReader interface {
	FindActive(ctx context.Context) (*models.AcademicSession, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// GPAServiceConfig tunes recomputation fan-out and caching.
type GPAServiceConfig struct {
	Concurrency int
	CacheTTL    time.Duration
}

// GPAService derives GPA and CGPA snapshots from finalized results.
type GPAService struct {
	results     gpaResultReader
	records     gpaRecordRepository
	students    studentReader
	sessions    activeSessionReader
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	concurrency int
	ttl         time.Duration
	now         func() time.Time

	mu    sync.RWMutex
	retry jobEnqueuer
}

// NewGPAService constructs a GPAService. cache and metrics may be nil.
func NewGPAService(results gpaResultReader, records gpaRecordRepository, students studentReader, sessions activeSessionReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg GPAServiceConfig) *GPAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &GPAService{
		results:     results,
		records:     records,
		students:    students,
		sessions:    sessions,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		concurrency: cfg.Concurrency,
		ttl:         cfg.CacheTTL,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// UseRetryQueue routes failed refreshes to q.
func (s *GPAService) UseRetryQueue(q jobEnqueuer) {
	s.mu.Lock()
	s.retry = q
	s.mu.Unlock()
}

// ComputeAndSave recomputes and stores the snapshot of one student term. GPA
// covers the term; CGPA covers every finalized result of the student.
func (s *GPAService) ComputeAndSave(ctx context.Context, term models.StudentTerm) (*models.GPARecord, error) {
	if !term.Semester.Valid() || term.Session == "" || term.StudentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student, session and semester are required")
	}
	grades, err := s.results.ListCreditedGrades(ctx, term.StudentID)
	if err != nil {
		s.metrics.RecordGPAComputation(err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load finalized results")
	}

	record := aggregateGPA(term, grades)
	record.ComputedAt = s.now()
	if err := s.records.Upsert(ctx, &record); err != nil {
		s.metrics.RecordGPAComputation(err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save GPA")
	}
	s.metrics.RecordGPAComputation(nil)
	s.cache.Set(ctx, gpaCacheKey(term), record, s.ttl)
	return &record, nil
}

// GetStudentGPA returns the stored snapshot, computing it on first access.
func (s *GPAService) GetStudentGPA(ctx context.Context, term models.StudentTerm) (*models.GPARecord, error) {
	if !term.Semester.Valid() || term.Session == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session and semester are required")
	}
	var cached models.GPARecord
	if s.cache.Get(ctx, gpaCacheKey(term), &cached) {
		return &cached, nil
	}

	record, err := s.records.Get(ctx, term)
	if err == nil {
		s.cache.Set(ctx, gpaCacheKey(term), record, s.ttl)
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load GPA")
	}
	if err := s.ensureStudent(ctx, term.StudentID); err != nil {
		return nil, err
	}
	return s.ComputeAndSave(ctx, term)
}

// Mine resolves the student profile of userID and returns its snapshot.
func (s *GPAService) Mine(ctx context.Context, userID, session string, semester models.Semester) (*models.GPARecord, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	return s.GetStudentGPA(ctx, models.StudentTerm{StudentID: student.ID, Session: session, Semester: semester})
}

// History lists every stored snapshot of a student.
func (s *GPAService) History(ctx context.Context, studentID string) ([]models.GPARecord, error) {
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	records, err := s.records.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list GPA history")
	}
	return records, nil
}

// Recompute refreshes every term of a student that has finalized results or a
// stored snapshot.
func (s *GPAService) Recompute(ctx context.Context, studentID string) ([]models.GPARecord, error) {
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, err
	}
	grades, err := s.results.ListCreditedGrades(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load finalized results")
	}
	existing, err := s.records.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list GPA history")
	}

	terms := make([]models.StudentTerm, 0, len(grades)+len(existing))
	for _, g := range grades {
		terms = append(terms, models.StudentTerm{StudentID: studentID, Session: g.Session, Semester: g.Semester})
	}
	for _, r := range existing {
		terms = append(terms, models.StudentTerm{StudentID: studentID, Session: r.Session, Semester: r.Semester})
	}
	terms = uniqueTerms(terms)

	// Cached snapshots of terms that no longer have results would otherwise outlive them.
	s.cache.Invalidate(ctx, cacheKeyGPA+studentID+":*")
	records := make([]models.GPARecord, 0, len(terms))
	for _, term := range terms {
		record, err := s.ComputeAndSave(ctx, term)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// RefreshStudents recomputes the given terms concurrently. Failures are
// returned as warnings and handed to the retry queue; they never fail the
// caller.
func (s *GPAService) RefreshStudents(ctx context.Context, terms []models.StudentTerm) []string {
	terms = uniqueTerms(terms)
	if len(terms) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		warnings []string
		g        errgroup.Group
	)
	g.SetLimit(s.concurrency)
	for _, term := range terms {
		term := term
		g.Go(func() error {
			if _, err := s.ComputeAndSave(ctx, term); err != nil {
				s.logger.Warn("gpa refresh failed",
					zap.String("student_id", term.StudentID),
					zap.String("session", term.Session),
					zap.String("semester", string(term.Semester)),
					zap.Error(err))
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("GPA refresh failed for student %s (%s %s)", term.StudentID, term.Session, term.Semester))
				mu.Unlock()
				s.scheduleRetry(term)
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(warnings)
	return warnings
}

// HandleRetry is the job handler of the GPA retry queue.
func (s *GPAService) HandleRetry(ctx context.Context, job jobs.Job) error {
	term, ok := job.Payload.(models.StudentTerm)
	if !ok {
		s.logger.Error("unexpected gpa retry payload", zap.String("job_id", job.ID))
		return nil
	}
	_, err := s.ComputeAndSave(ctx, term)
	return err
}

// Reconcile recomputes every student term with finalized results in session,
// defaulting to the active session. It returns the number of terms visited.
func (s *GPAService) Reconcile(ctx context.Context, session string) (int, []string, error) {
	if session == "" {
		active, err := s.sessions.FindActive(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, nil, appErrors.Clone(appErrors.ErrNotFound, "no active session")
			}
			return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active session")
		}
		session = active.Name
	}
	terms, err := s.results.ListFinalizedTerms(ctx, session)
	if err != nil {
		return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list finalized terms")
	}
	warnings := s.RefreshStudents(ctx, terms)
	return len(terms), warnings, nil
}

// ReconcileActive is the scheduled form of Reconcile.
func (s *GPAService) ReconcileActive(ctx context.Context) error {
	visited, warnings, err := s.Reconcile(ctx, "")
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) {
			s.logger.Info("gpa reconcile skipped: no active session")
			return nil
		}
		return err
	}
	s.logger.Info("gpa reconcile finished", zap.Int("terms", visited), zap.Int("failed", len(warnings)))
	if len(warnings) > 0 {
		return fmt.Errorf("%d of %d GPA refreshes failed", len(warnings), visited)
	}
	return nil
}

func (s *GPAService) scheduleRetry(term models.StudentTerm) {
	s.mu.RLock()
	retry := s.retry
	s.mu.RUnlock()
	if retry == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: GPARefreshJobType, Key: term.CacheKey(), Payload: term}
	if err := retry.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue gpa retry", zap.String("key", job.Key), zap.Error(err))
	}
}

func (s *GPAService) ensureStudent(ctx context.Context, studentID string) error {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return nil
}

// aggregateGPA weights grade points by credit units. Terms without credited
// results yield zero rather than dividing by zero.
func aggregateGPA(term models.StudentTerm, grades []models.CreditedGrade) models.GPARecord {
	var (
		termUnits, totalUnits   int
		termPoints, totalPoints = decimal.Zero, decimal.Zero
	)
	for _, g := range grades {
		quality := decimal.NewFromFloat(g.GradePoint).Mul(decimal.NewFromInt(int64(g.CreditUnit)))
		totalUnits += g.CreditUnit
		totalPoints = totalPoints.Add(quality)
		if g.Session == term.Session && g.Semester == term.Semester {
			termUnits += g.CreditUnit
			termPoints = termPoints.Add(quality)
		}
	}
	return models.GPARecord{
		StudentID:               term.StudentID,
		Session:                 term.Session,
		Semester:                term.Semester,
		GPA:                     weightedAverage(termPoints, termUnits),
		CGPA:                    weightedAverage(totalPoints, totalUnits),
		TotalCreditUnits:        termUnits,
		TotalQualityPoints:      termPoints.Round(2).InexactFloat64(),
		CumulativeCreditUnits:   totalUnits,
		CumulativeQualityPoints: totalPoints.Round(2).InexactFloat64(),
	}
}

func weightedAverage(points decimal.Decimal, units int) float64 {
	if units <= 0 {
		return 0
	}
	return points.Div(decimal.NewFromInt(int64(units))).Round(2).InexactFloat64()
}

func uniqueTerms(terms []models.StudentTerm) []models.StudentTerm {
	seen := make(map[models.StudentTerm]struct{}, len(terms))
	unique := make([]models.StudentTerm, 0, len(terms))
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		unique = append(unique, term)
	}
	return unique
}

func gpaCacheKey(term models.StudentTerm) string {
	return cacheKeyGPA + term.CacheKey()
}
