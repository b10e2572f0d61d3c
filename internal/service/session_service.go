package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	"github.com/noah-isme/result-processing-api/pkg/database"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

const sessionDateLayout = "2006-01-02"

var sessionNamePattern = regexp.MustCompile(`^(\d{4})/(\d{4})$`)

type sessionRepository interface {
	Create(ctx context.Context, session *models.AcademicSession) error
	List(ctx context.Context) ([]models.AcademicSession, error)
	FindByID(ctx context.Context, id string) (*models.AcademicSession, error)
	FindActive(ctx context.Context) (*models.AcademicSession, error)
	FindSemester(ctx context.Context, sessionName string, semester models.Semester) (*models.SessionSemester, error)
	SetLock(ctx context.Context, sessionID string, semester models.Semester, locked bool, actorID string, at time.Time) error
	Activate(ctx context.Context, id string) error
}

// SessionService manages academic sessions and the per-semester result lock.
type SessionService struct {
	repo   sessionRepository
	audit  auditLogger
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo sessionRepository, audit auditLogger, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, audit: audit, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Create opens a session with unlocked First and Second semesters.
func (s *SessionService) Create(ctx context.Context, req dto.CreateSessionRequest, actor models.Actor) (*models.AcademicSession, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateSessionName(name); err != nil {
		return nil, err
	}
	start, err := time.Parse(sessionDateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(sessionDateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be after startDate")
	}

	session := &models.AcademicSession{Name: name, StartDate: start, EndDate: end}
	if err := s.repo.Create(ctx, session); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("session %s already exists", name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      models.AuditActionCreateSession,
		Resource:    "session",
		ResourceID:  &session.ID,
		Description: "created session " + name,
	})
	return session, nil
}

// List returns every session with its semesters.
func (s *SessionService) List(ctx context.Context) ([]models.AcademicSession, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// Get returns one session.
func (s *SessionService) Get(ctx context.Context, id string) (*models.AcademicSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Active returns the active session.
func (s *SessionService) Active(ctx context.Context) (*models.AcademicSession, error) {
	session, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active session")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active session")
	}
	return session, nil
}

// Activate makes id the only active session.
func (s *SessionService) Activate(ctx context.Context, id string, actor models.Actor) (*models.AcademicSession, error) {
	if err := s.repo.Activate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate session")
	}
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      models.AuditActionActivateSession,
		Resource:    "session",
		ResourceID:  &id,
		Description: "activated session",
	})
	return s.Get(ctx, id)
}

// Lock closes a semester for score changes.
func (s *SessionService) Lock(ctx context.Context, id string, semester models.Semester, actor models.Actor) (*models.AcademicSession, error) {
	return s.setLock(ctx, id, semester, true, actor)
}

// Unlock reopens a semester and clears its lock stamp.
func (s *SessionService) Unlock(ctx context.Context, id string, semester models.Semester, actor models.Actor) (*models.AcademicSession, error) {
	return s.setLock(ctx, id, semester, false, actor)
}

// IsLocked reports whether results of the named session and semester are closed.
// A session that does not exist is treated as unlocked.
func (s *SessionService) IsLocked(ctx context.Context, sessionName string, semester models.Semester) (bool, error) {
	record, err := s.repo.FindSemester(ctx, sessionName, semester)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check semester lock")
	}
	return record.IsLocked, nil
}

func (s *SessionService) setLock(ctx context.Context, id string, semester models.Semester, locked bool, actor models.Actor) (*models.AcademicSession, error) {
	if !semester.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester must be First or Second")
	}
	if err := s.repo.SetLock(ctx, id, semester, locked, actor.ID, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update semester lock")
	}

	action, verb := models.AuditActionLockSemester, "locked"
	if !locked {
		action, verb = models.AuditActionUnlockSemester, "unlocked"
	}
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      action,
		Resource:    "session",
		ResourceID:  &id,
		Description: fmt.Sprintf("%s %s semester", verb, semester),
	})
	return s.Get(ctx, id)
}

func validateSessionName(name string) error {
	match := sessionNamePattern.FindStringSubmatch(name)
	if match == nil {
		return appErrors.Clone(appErrors.ErrValidation, "session name must look like 2023/2024")
	}
	first, _ := strconv.Atoi(match[1])
	second, _ := strconv.Atoi(match[2])
	if second != first+1 {
		return appErrors.Clone(appErrors.ErrValidation, "session must span consecutive years")
	}
	return nil
}
