package models

import "time"

// GPARecord is the persisted GPA snapshot for one student, session and semester.
type GPARecord struct {
	ID                      string    `db:"id" json:"id"`
	StudentID               string    `db:"student_id" json:"student_id"`
	Session                 string    `db:"session" json:"session"`
	Semester                Semester  `db:"semester" json:"semester"`
	GPA                     float64   `db:"gpa" json:"gpa"`
	CGPA                    float64   `db:"cgpa" json:"cgpa"`
	TotalCreditUnits        int       `db:"total_credit_units" json:"total_credit_units"`
	TotalQualityPoints      float64   `db:"total_quality_points" json:"total_quality_points"`
	CumulativeCreditUnits   int       `db:"cumulative_credit_units" json:"cumulative_credit_units"`
	CumulativeQualityPoints float64   `db:"cumulative_quality_points" json:"cumulative_quality_points"`
	ComputedAt              time.Time `db:"computed_at" json:"computed_at"`
}

// CreditedGrade is a finalized result reduced to what GPA weighting needs.
type CreditedGrade struct {
	ResultID   string   `db:"result_id"`
	CourseID   string   `db:"course_id"`
	Session    string   `db:"session"`
	Semester   Semester `db:"semester"`
	GradePoint float64  `db:"grade_point"`
	CreditUnit int      `db:"credit_unit"`
}

// StudentTerm identifies one GPA snapshot.
type StudentTerm struct {
	StudentID string   `db:"student_id" json:"student_id"`
	Session   string   `db:"session" json:"session"`
	Semester  Semester `db:"semester" json:"semester"`
}

// CacheKey renders the term as a cache key suffix.
func (k StudentTerm) CacheKey() string {
	return k.StudentID + ":" + k.Session + ":" + string(k.Semester)
}
