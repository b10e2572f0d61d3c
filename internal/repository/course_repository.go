package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-processing-api/internal/models"
)

const courseColumns = `id, course_code, title, credit_unit, department, level, semester, lecturer_id, is_active`

// CourseRepository reads the course directory.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID fetches a course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &course, nil
}
