package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-processing-api/internal/models"
)

const studentColumns = `id, user_id, matric_number, full_name, department, faculty, level, admission_session, status`

// StudentRepository reads the student directory.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID fetches the student profile linked to a user account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, `SELECT `+studentColumns+` FROM students WHERE user_id = $1`, userID); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByMatric fetches a student by matriculation number, ignoring case.
func (r *StudentRepository) FindByMatric(ctx context.Context, matric string) (*models.Student, error) {
	var student models.Student
	query := `SELECT ` + studentColumns + ` FROM students WHERE UPPER(matric_number) = $1`
	if err := r.db.GetContext(ctx, &student, query, strings.ToUpper(strings.TrimSpace(matric))); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByMatrics resolves many matriculation numbers in one query, keyed by upper-cased matric.
func (r *StudentRepository) FindByMatrics(ctx context.Context, matrics []string) (map[string]models.Student, error) {
	result := make(map[string]models.Student, len(matrics))
	if len(matrics) == 0 {
		return result, nil
	}
	args := make([]interface{}, len(matrics))
	for i, m := range matrics {
		args[i] = strings.ToUpper(strings.TrimSpace(m))
	}
	query := fmt.Sprintf(`SELECT %s FROM students WHERE UPPER(matric_number) IN (%s)`, studentColumns, placeholders(len(matrics)))
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("find students by matric: %w", err)
	}
	for _, s := range students {
		result[strings.ToUpper(s.MatricNumber)] = s
	}
	return result, nil
}
