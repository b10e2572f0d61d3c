package models

// Course is the read-only course directory entry used for credit weighting and HOD scoping.
type Course struct {
	ID         string   `db:"id" json:"id"`
	Code       string   `db:"course_code" json:"course_code"`
	Title      string   `db:"title" json:"title"`
	CreditUnit int      `db:"credit_unit" json:"credit_unit"`
	Department string   `db:"department" json:"department"`
	Level      int      `db:"level" json:"level"`
	Semester   Semester `db:"semester" json:"semester"`
	LecturerID *string  `db:"lecturer_id" json:"lecturer_id,omitempty"`
	IsActive   bool     `db:"is_active" json:"is_active"`
}

// Student is the read-only student directory entry.
type Student struct {
	ID               string `db:"id" json:"id"`
	UserID           string `db:"user_id" json:"user_id"`
	MatricNumber     string `db:"matric_number" json:"matric_number"`
	FullName         string `db:"full_name" json:"full_name"`
	Department       string `db:"department" json:"department"`
	Faculty          string `db:"faculty" json:"faculty"`
	Level            int    `db:"level" json:"level"`
	AdmissionSession string `db:"admission_session" json:"admission_session"`
	Status           string `db:"status" json:"status"`
}
