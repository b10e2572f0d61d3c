package models

import "time"

// AcademicSession is an academic year such as "2023/2024".
type AcademicSession struct {
	ID        string            `db:"id" json:"id"`
	Name      string            `db:"name" json:"name"`
	StartDate time.Time         `db:"start_date" json:"start_date"`
	EndDate   time.Time         `db:"end_date" json:"end_date"`
	IsActive  bool              `db:"is_active" json:"is_active"`
	Semesters []SessionSemester `db:"-" json:"semesters"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// SessionSemester holds the lock state of one semester of a session.
type SessionSemester struct {
	SessionID string     `db:"session_id" json:"-"`
	Name      Semester   `db:"name" json:"name"`
	IsLocked  bool       `db:"is_locked" json:"is_locked"`
	LockedAt  *time.Time `db:"locked_at" json:"locked_at,omitempty"`
	LockedBy  *string    `db:"locked_by" json:"locked_by,omitempty"`
}

// Semester returns the named semester sub-record.
func (s *AcademicSession) Semester(name Semester) (*SessionSemester, bool) {
	for i := range s.Semesters {
		if s.Semesters[i].Name == name {
			return &s.Semesters[i], true
		}
	}
	return nil, false
}
