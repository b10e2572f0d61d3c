package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/result-processing-api/internal/models"
)

const sessionColumns = `id, name, start_date, end_date, is_active, created_at, updated_at`

// SessionRepository persists academic sessions and their semester locks.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts the session together with unlocked First and Second semesters.
func (r *SessionRepository) Create(ctx context.Context, session *models.AcademicSession) error {
	now := time.Now().UTC()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = now
	session.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session tx: %w", err)
	}
	const insertSession = `INSERT INTO sessions (id, name, start_date, end_date, is_active, created_at, updated_at)
VALUES (:id, :name, :start_date, :end_date, :is_active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertSession, session); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create session: %w", err)
	}

	session.Semesters = make([]models.SessionSemester, 0, len(models.Semesters))
	for _, name := range models.Semesters {
		semester := models.SessionSemester{SessionID: session.ID, Name: name}
		if _, err := tx.ExecContext(ctx, `INSERT INTO session_semesters (session_id, name, is_locked) VALUES ($1, $2, FALSE)`, session.ID, name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("create session semester: %w", err)
		}
		session.Semesters = append(session.Semesters, semester)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session tx: %w", err)
	}
	return nil
}

// List returns all sessions, newest first, with their semesters.
func (r *SessionRepository) List(ctx context.Context) ([]models.AcademicSession, error) {
	var sessions []models.AcademicSession
	if err := r.db.SelectContext(ctx, &sessions, `SELECT `+sessionColumns+` FROM sessions ORDER BY name DESC`); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return sessions, nil
	}
	ids := make([]string, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].ID
	}
	semesters, err := r.semesters(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].Semesters = semesters[sessions[i].ID]
	}
	return sessions, nil
}

// FindByID returns a session with its semesters.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	var session models.AcademicSession
	if err := r.db.GetContext(ctx, &session, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id); err != nil {
		return nil, err
	}
	semesters, err := r.semesters(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	session.Semesters = semesters[id]
	return &session, nil
}

// FindByName returns a session by its name without semesters.
func (r *SessionRepository) FindByName(ctx context.Context, name string) (*models.AcademicSession, error) {
	var session models.AcademicSession
	if err := r.db.GetContext(ctx, &session, `SELECT `+sessionColumns+` FROM sessions WHERE name = $1`, name); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActive returns the active session.
func (r *SessionRepository) FindActive(ctx context.Context) (*models.AcademicSession, error) {
	var session models.AcademicSession
	if err := r.db.GetContext(ctx, &session, `SELECT `+sessionColumns+` FROM sessions WHERE is_active = TRUE LIMIT 1`); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindSemester returns the lock record for a session name and semester.
func (r *SessionRepository) FindSemester(ctx context.Context, sessionName string, semester models.Semester) (*models.SessionSemester, error) {
	const query = `SELECT ss.session_id, ss.name, ss.is_locked, ss.locked_at, ss.locked_by
FROM session_semesters ss
JOIN sessions s ON s.id = ss.session_id
WHERE s.name = $1 AND ss.name = $2`
	var record models.SessionSemester
	if err := r.db.GetContext(ctx, &record, query, sessionName, semester); err != nil {
		return nil, err
	}
	return &record, nil
}

// SetLock writes the lock state of one semester. Unlocking clears locked_at and locked_by.
func (r *SessionRepository) SetLock(ctx context.Context, sessionID string, semester models.Semester, locked bool, actorID string, at time.Time) error {
	var (
		lockedAt *time.Time
		lockedBy *string
	)
	if locked {
		lockedAt = &at
		lockedBy = &actorID
	}
	res, err := r.db.ExecContext(ctx, `UPDATE session_semesters SET is_locked = $3, locked_at = $4, locked_by = $5
WHERE session_id = $1 AND name = $2`, sessionID, semester, locked, lockedAt, lockedBy)
	if err != nil {
		return fmt.Errorf("set semester lock: %w", err)
	}
	return requireAffected(res, "set semester lock")
}

// Activate marks one session active and clears the flag on every other session.
func (r *SessionRepository) Activate(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activate tx: %w", err)
	}
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET is_active = FALSE, updated_at = $1 WHERE is_active = TRUE AND id <> $2`, now, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("deactivate sessions: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET is_active = TRUE, updated_at = $1 WHERE id = $2`, now, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("activate session: %w", err)
	}
	if err := requireAffected(res, "activate session"); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit activate tx: %w", err)
	}
	return nil
}

func (r *SessionRepository) semesters(ctx context.Context, sessionIDs []string) (map[string][]models.SessionSemester, error) {
	const query = `SELECT session_id, name, is_locked, locked_at, locked_by FROM session_semesters
WHERE session_id = ANY($1) ORDER BY session_id, CASE name WHEN 'First' THEN 1 ELSE 2 END`
	var rows []models.SessionSemester
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(sessionIDs)); err != nil {
		return nil, fmt.Errorf("list session semesters: %w", err)
	}
	grouped := make(map[string][]models.SessionSemester, len(sessionIDs))
	for _, row := range rows {
		grouped[row.SessionID] = append(grouped[row.SessionID], row)
	}
	return grouped, nil
}
