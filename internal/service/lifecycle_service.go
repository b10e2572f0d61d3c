package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

type lifecycleResultRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.ResultDetail, error)
	SubmitDrafts(ctx context.Context, courseID, session string, semester models.Semester, actorID string, at time.Time) ([]models.TransitionedResult, error)
	Transition(ctx context.Context, ids []string, from []models.ResultStatus, to models.ResultStatus, stamp models.TransitionStamp) ([]models.TransitionedResult, error)
}

type semesterLockChecker interface {
	IsLocked(ctx context.Context, session string, semester models.Semester) (bool, error)
}

type approvalPolicy interface {
	HODApprovalRequired(ctx context.Context) (bool, error)
}

type gpaRefresher interface {
	RefreshStudents(ctx context.Context, terms []models.StudentTerm) []string
}

// LifecycleService moves results through draft, submitted, hod_approved,
// rejected and published.
type LifecycleService struct {
	results lifecycleResultRepository
	locks   semesterLockChecker
	policy  approvalPolicy
	gpa     gpaRefresher
	audit   auditLogger
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewLifecycleService constructs a LifecycleService.
func NewLifecycleService(results lifecycleResultRepository, locks semesterLockChecker, policy approvalPolicy, gpa gpaRefresher, audit auditLogger, metrics *MetricsService, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		results: results,
		locks:   locks,
		policy:  policy,
		gpa:     gpa,
		audit:   audit,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit moves the actor's drafts of a course term to submitted. Nothing to
// submit is not an error.
func (s *LifecycleService) Submit(ctx context.Context, query dto.CourseTermQuery, actor models.Actor) (*dto.TransitionOutcome, error) {
	session := strings.TrimSpace(query.Session)
	if query.CourseID == "" || session == "" || !query.Semester.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId, session and semester are required")
	}
	if err := ensureUnlocked(ctx, s.locks, session, query.Semester); err != nil {
		return nil, err
	}

	moved, err := s.results.SubmitDrafts(ctx, query.CourseID, session, query.Semester, actor.ID, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit results")
	}
	s.metrics.RecordTransitions(models.ResultStatusSubmitted, len(moved))
	outcome := newTransitionOutcome()
	outcome.Processed = len(moved)
	outcome.Results = append(outcome.Results, moved...)
	if len(moved) > 0 {
		s.auditTransition(ctx, actor, models.AuditActionSubmitResults, moved,
			fmt.Sprintf("submitted %d results of course %s for %s %s", len(moved), query.CourseID, session, query.Semester))
	}
	return outcome, nil
}

// Approve moves submitted results to hod_approved and refreshes the GPA of
// every affected student. A HOD may only approve courses of their department.
func (s *LifecycleService) Approve(ctx context.Context, ids []string, actor models.Actor) (*dto.TransitionOutcome, error) {
	if !actor.IsHOD() && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only a HOD or admin can approve results")
	}
	stamp := models.TransitionStamp{Actor: actor.ID, At: s.now(), AdminApproval: actor.IsAdmin()}
	outcome, err := s.transition(ctx, ids, models.SourcesOf(models.ResultStatusHODApproved), models.ResultStatusHODApproved, stamp, actor)
	if err != nil {
		return nil, err
	}
	if outcome.Processed > 0 {
		outcome.Warnings = s.gpa.RefreshStudents(ctx, termsOf(outcome.Results))
		s.auditTransition(ctx, actor, models.AuditActionApproveResults, outcome.Results,
			fmt.Sprintf("approved %d results", outcome.Processed))
	}
	return outcome, nil
}

// Reject sends submitted results back to the lecturer with a reason.
func (s *LifecycleService) Reject(ctx context.Context, ids []string, reason string, actor models.Actor) (*dto.TransitionOutcome, error) {
	if !actor.IsHOD() && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only a HOD or admin can reject results")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	stamp := models.TransitionStamp{Actor: actor.ID, At: s.now(), Reason: reason}
	outcome, err := s.transition(ctx, ids, models.SourcesOf(models.ResultStatusRejected), models.ResultStatusRejected, stamp, actor)
	if err != nil {
		return nil, err
	}
	if outcome.Processed > 0 {
		s.auditTransition(ctx, actor, models.AuditActionRejectResults, outcome.Results,
			fmt.Sprintf("rejected %d results: %s", outcome.Processed, reason))
	}
	return outcome, nil
}

// Publish releases results to students. Submitted results are publishable
// directly when HOD approval is not required.
func (s *LifecycleService) Publish(ctx context.Context, ids []string, actor models.Actor) (*dto.TransitionOutcome, error) {
	if !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only an admin can publish results")
	}
	required, err := s.policy.HODApprovalRequired(ctx)
	if err != nil {
		return nil, err
	}
	from := models.SourcesOf(models.ResultStatusPublished)
	if required {
		from = withoutStatus(from, models.ResultStatusSubmitted)
	}
	stamp := models.TransitionStamp{Actor: actor.ID, At: s.now()}
	outcome, err := s.transition(ctx, ids, from, models.ResultStatusPublished, stamp, actor)
	if err != nil {
		return nil, err
	}
	if outcome.Processed > 0 {
		outcome.Warnings = s.gpa.RefreshStudents(ctx, termsOf(outcome.Results))
		s.auditTransition(ctx, actor, models.AuditActionPublishResults, outcome.Results,
			fmt.Sprintf("published %d results", outcome.Processed))
	}
	return outcome, nil
}

func (s *LifecycleService) transition(ctx context.Context, ids []string, from []models.ResultStatus, to models.ResultStatus, stamp models.TransitionStamp, actor models.Actor) (*dto.TransitionOutcome, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "resultIds are required")
	}
	details, err := s.results.ListByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}
	byID := make(map[string]models.ResultDetail, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	outcome := newTransitionOutcome()
	eligible := make([]string, 0, len(ids))
	for _, id := range ids {
		detail, ok := byID[id]
		switch {
		case !ok:
			outcome.Errors = append(outcome.Errors, dto.ItemError{ResultID: id, Message: "result not found"})
		case actor.IsHOD() && !strings.EqualFold(detail.CourseDepartment, actor.Department):
			outcome.Errors = append(outcome.Errors, dto.ItemError{ResultID: id, StudentID: detail.StudentID, Message: "course is outside your department"})
		case !statusIn(detail.Status, from) || !models.CanTransition(detail.Status, to):
			outcome.Skipped++
		default:
			eligible = append(eligible, id)
		}
	}

	moved, err := s.results.Transition(ctx, eligible, from, to, stamp)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to move results to %s", to))
	}
	outcome.Processed = len(moved)
	outcome.Skipped += len(eligible) - len(moved)
	outcome.Results = append(outcome.Results, moved...)
	s.metrics.RecordTransitions(to, len(moved))
	return outcome, nil
}

func (s *LifecycleService) auditTransition(ctx context.Context, actor models.Actor, action string, moved []models.TransitionedResult, description string) {
	ids := make([]string, len(moved))
	for i, m := range moved {
		ids[i] = m.ID
	}
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      action,
		Resource:    "result",
		Description: description,
		NewValues:   auditPayload(map[string]interface{}{"resultIds": ids}),
	})
}

func ensureUnlocked(ctx context.Context, locks semesterLockChecker, session string, semester models.Semester) error {
	locked, err := locks.IsLocked(ctx, session, semester)
	if err != nil {
		return err
	}
	if locked {
		return appErrors.Clone(appErrors.ErrLockedSemester, fmt.Sprintf("%s %s semester is locked", session, semester))
	}
	return nil
}

func newTransitionOutcome() *dto.TransitionOutcome {
	return &dto.TransitionOutcome{Results: []models.TransitionedResult{}, Errors: []dto.ItemError{}}
}

func termsOf(moved []models.TransitionedResult) []models.StudentTerm {
	terms := make([]models.StudentTerm, len(moved))
	for i, m := range moved {
		terms[i] = models.StudentTerm{StudentID: m.StudentID, Session: m.Session, Semester: m.Semester}
	}
	return terms
}

func statusIn(status models.ResultStatus, set []models.ResultStatus) bool {
	for _, candidate := range set {
		if status == candidate {
			return true
		}
	}
	return false
}

func withoutStatus(set []models.ResultStatus, drop models.ResultStatus) []models.ResultStatus {
	kept := make([]models.ResultStatus, 0, len(set))
	for _, status := range set {
		if status != drop {
			kept = append(kept, status)
		}
	}
	return kept
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
