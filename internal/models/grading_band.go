package models

import (
	"time"

	"github.com/noah-isme/result-processing-api/internal/grading"
)

// GradingBand is a persisted band of the grading scale.
type GradingBand struct {
	ID         string    `db:"id" json:"id"`
	MinScore   float64   `db:"min_score" json:"min_score"`
	MaxScore   float64   `db:"max_score" json:"max_score"`
	Grade      string    `db:"grade" json:"grade"`
	GradePoint float64   `db:"grade_point" json:"grade_point"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Band converts the row into the grading rule's representation.
func (b GradingBand) Band() grading.Band {
	return grading.Band{MinScore: b.MinScore, MaxScore: b.MaxScore, Grade: b.Grade, GradePoint: b.GradePoint}
}
