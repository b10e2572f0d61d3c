package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-processing-api/internal/models"
)

var semesterColumns = []string{"session_id", "name", "is_locked", "locked_at", "locked_by"}

func TestSessionRepositoryCreateAddsBothSemesters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sessions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO session_semesters").
		WithArgs(sqlmock.AnyArg(), "First").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO session_semesters").
		WithArgs(sqlmock.AnyArg(), "Second").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	session := &models.AcademicSession{Name: "2023/2024", StartDate: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.Create(context.Background(), session))
	assert.NotEmpty(t, session.ID)
	require.Len(t, session.Semesters, 2)
	assert.False(t, session.Semesters[1].IsLocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindByIDLoadsSemesters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM sessions WHERE id = \\$1").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(columnNames(sessionColumns)).
			AddRow("sess-1", "2023/2024", now, now, true, now, now))
	mock.ExpectQuery("FROM session_semesters").
		WillReturnRows(sqlmock.NewRows(semesterColumns).
			AddRow("sess-1", "First", true, now, "admin-1").
			AddRow("sess-1", "Second", false, nil, nil))

	session, err := repo.FindByID(context.Background(), "sess-1")
	require.NoError(t, err)
	first, ok := session.Semester(models.SemesterFirst)
	require.True(t, ok)
	assert.True(t, first.IsLocked)
	assert.Equal(t, "admin-1", *first.LockedBy)
	second, ok := session.Semester(models.SemesterSecond)
	require.True(t, ok)
	assert.Nil(t, second.LockedAt)
}

func TestSessionRepositoryFindSemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery("JOIN sessions s ON s.id = ss.session_id").
		WithArgs("2023/2024", "Second").
		WillReturnRows(sqlmock.NewRows(semesterColumns).AddRow("sess-1", "Second", true, time.Now(), "admin-1"))

	sem, err := repo.FindSemester(context.Background(), "2023/2024", models.SemesterSecond)
	require.NoError(t, err)
	assert.True(t, sem.IsLocked)
}

func TestSessionRepositorySetLockClearsStampOnUnlock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec("UPDATE session_semesters SET is_locked").
		WithArgs("sess-1", "First", false, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetLock(context.Background(), "sess-1", models.SemesterFirst, false, "admin-1", time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryActivateUnknown(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sessions SET is_active = FALSE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sessions SET is_active = TRUE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Activate(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
