package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-processing-api/internal/models"
)

func TestReportRepositoryDepartmentRowsWithSemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.department = $1 AND r.session = $2 AND r.status = ANY($3) AND r.semester = $4")).
		WithArgs("Computer Science", "2023/2024", sqlmock.AnyArg(), "First").
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "course_code", "course_title", "grade", "grade_point"}).
			AddRow("crs-1", "CSC301", "Compilers", "A", 5.0).
			AddRow("crs-1", "CSC301", "Compilers", "F", 0.0))

	rows, err := repo.DepartmentRows(context.Background(), "Computer Science", "2023/2024", models.SemesterFirst)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryDepartmentRowsWholeSession(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("r.status = ANY($3)\nORDER BY c.course_code ASC")).
		WithArgs("Computer Science", "2023/2024", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "course_code", "course_title", "grade", "grade_point"}))

	rows, err := repo.DepartmentRows(context.Background(), "Computer Science", "2023/2024", "")
	require.NoError(t, err)
	require.Empty(t, rows)
}
