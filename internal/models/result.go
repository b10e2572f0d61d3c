package models

import "time"

// ResultStatus tracks a result through the approval workflow.
type ResultStatus string

const (
	ResultStatusDraft       ResultStatus = "draft"
	ResultStatusSubmitted   ResultStatus = "submitted"
	ResultStatusHODApproved ResultStatus = "hod_approved"
	ResultStatusRejected    ResultStatus = "rejected"
	ResultStatusPublished   ResultStatus = "published"
)

// Semester names a half of an academic session.
type Semester string

const (
	SemesterFirst  Semester = "First"
	SemesterSecond Semester = "Second"
)

// Semesters lists both semesters in calendar order.
var Semesters = []Semester{SemesterFirst, SemesterSecond}

// Valid reports whether s is First or Second.
func (s Semester) Valid() bool {
	return s == SemesterFirst || s == SemesterSecond
}

// Order returns 1 for First and 2 for Second.
func (s Semester) Order() int {
	if s == SemesterSecond {
		return 2
	}
	return 1
}

//	draft ──► submitted ──► hod_approved ──► published
//	  ▲            │
//	  │            ├──────────────────────────► published   (HOD approval disabled)
//	  │            ▼
//	  └──────── rejected
var resultTransitions = map[ResultStatus][]ResultStatus{
	ResultStatusDraft:       {ResultStatusSubmitted},
	ResultStatusSubmitted:   {ResultStatusHODApproved, ResultStatusRejected, ResultStatusPublished},
	ResultStatusHODApproved: {ResultStatusPublished},
	ResultStatusRejected:    {ResultStatusDraft},
}

// CanTransition reports whether from -> to is an edge of the workflow.
func CanTransition(from, to ResultStatus) bool {
	for _, next := range resultTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ResultStatuses lists every status in workflow order.
var ResultStatuses = []ResultStatus{
	ResultStatusDraft,
	ResultStatusSubmitted,
	ResultStatusHODApproved,
	ResultStatusRejected,
	ResultStatusPublished,
}

// SourcesOf returns the statuses with an edge into to, in workflow order.
func SourcesOf(to ResultStatus) []ResultStatus {
	sources := make([]ResultStatus, 0, 2)
	for _, from := range ResultStatuses {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// Valid reports whether s is a known status.
func (s ResultStatus) Valid() bool {
	switch s {
	case ResultStatusDraft, ResultStatusSubmitted, ResultStatusHODApproved, ResultStatusRejected, ResultStatusPublished:
		return true
	}
	return false
}

// Finalized reports whether results in this status count towards GPA.
func (s ResultStatus) Finalized() bool {
	return s == ResultStatusHODApproved || s == ResultStatusPublished
}

// Immutable reports whether the score entry path must refuse changes.
func (s ResultStatus) Immutable() bool {
	return s.Finalized()
}

// FinalizedStatuses are the statuses counted by the GPA aggregator.
var FinalizedStatuses = []ResultStatus{ResultStatusHODApproved, ResultStatusPublished}

// Result is one score entry for a (student, course, session, semester) tuple.
type Result struct {
	ID              string       `db:"id" json:"id"`
	StudentID       string       `db:"student_id" json:"student_id"`
	CourseID        string       `db:"course_id" json:"course_id"`
	Session         string       `db:"session" json:"session"`
	Semester        Semester     `db:"semester" json:"semester"`
	CA              float64      `db:"ca" json:"ca"`
	Exam            float64      `db:"exam" json:"exam"`
	Total           float64      `db:"total" json:"total"`
	Grade           string       `db:"grade" json:"grade"`
	GradePoint      float64      `db:"grade_point" json:"grade_point"`
	Status          ResultStatus `db:"status" json:"status"`
	Remarks         *string      `db:"remarks" json:"remarks,omitempty"`
	SubmittedBy     *string      `db:"submitted_by" json:"submitted_by,omitempty"`
	SubmittedAt     *time.Time   `db:"submitted_at" json:"submitted_at,omitempty"`
	HODApprovedBy   *string      `db:"hod_approved_by" json:"hod_approved_by,omitempty"`
	HODApprovedAt   *time.Time   `db:"hod_approved_at" json:"hod_approved_at,omitempty"`
	ApprovedBy      *string      `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time   `db:"approved_at" json:"approved_at,omitempty"`
	RejectedBy      *string      `db:"rejected_by" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time   `db:"rejected_at" json:"rejected_at,omitempty"`
	RejectionReason *string      `db:"rejection_reason" json:"rejection_reason,omitempty"`
	PublishedBy     *string      `db:"published_by" json:"published_by,omitempty"`
	PublishedAt     *time.Time   `db:"published_at" json:"published_at,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// ResultKey is the natural key of a result.
type ResultKey struct {
	StudentID string
	CourseID  string
	Session   string
	Semester  Semester
}

// ResultDetail joins a result with the student and course fields read paths show.
type ResultDetail struct {
	Result
	MatricNumber     string `db:"matric_number" json:"matric_number"`
	StudentName      string `db:"student_name" json:"student_name"`
	CourseCode       string `db:"course_code" json:"course_code"`
	CourseTitle      string `db:"course_title" json:"course_title"`
	CreditUnit       int    `db:"credit_unit" json:"credit_unit"`
	CourseDepartment string `db:"course_department" json:"course_department"`
}

// ResultFilter narrows result listings.
type ResultFilter struct {
	StudentID  string
	CourseID   string
	Session    string
	Semester   Semester
	Department string
	Statuses   []ResultStatus
	Page       int
	PageSize   int
}

// TransitionStamp carries the columns written alongside a status change.
type TransitionStamp struct {
	Actor  string
	At     time.Time
	Reason string
	// AdminApproval also stamps approved_by/approved_at.
	AdminApproval bool
}

// TransitionedResult identifies a result whose status was changed.
type TransitionedResult struct {
	ID        string       `db:"id" json:"id"`
	StudentID string       `db:"student_id" json:"student_id"`
	CourseID  string       `db:"course_id" json:"course_id"`
	Session   string       `db:"session" json:"session"`
	Semester  Semester     `db:"semester" json:"semester"`
	Status    ResultStatus `db:"status" json:"status"`
}
