package dto

import "github.com/noah-isme/result-processing-api/internal/models"

// RecordScoreRequest is the payload for entering or correcting one score.
type RecordScoreRequest struct {
	StudentID string          `json:"studentId" validate:"required"`
	CourseID  string          `json:"courseId" validate:"required"`
	Session   string          `json:"session" validate:"required"`
	Semester  models.Semester `json:"semester" validate:"required,oneof=First Second"`
	CA        *float64        `json:"ca" validate:"required,gte=0,lte=30"`
	Exam      *float64        `json:"exam" validate:"required,gte=0,lte=70"`
	Remarks   string          `json:"remarks" validate:"omitempty,max=500"`
}

// ScoreEntry is one row of a bulk score upload.
type ScoreEntry struct {
	StudentID string   `json:"studentId" validate:"required"`
	CA        *float64 `json:"ca" validate:"required"`
	Exam      *float64 `json:"exam" validate:"required"`
}

// BulkRecordRequest uploads many scores of one course term.
type BulkRecordRequest struct {
	CourseID string          `json:"courseId" validate:"required"`
	Session  string          `json:"session" validate:"required"`
	Semester models.Semester `json:"semester" validate:"required,oneof=First Second"`
	Entries  []ScoreEntry    `json:"entries" validate:"required,min=1"`
	Submit   bool            `json:"submit"`
}

// CourseTermQuery identifies a course offering.
type CourseTermQuery struct {
	CourseID string          `json:"courseId" form:"courseId" validate:"required"`
	Session  string          `json:"session" form:"session" validate:"required"`
	Semester models.Semester `json:"semester" form:"semester" validate:"required,oneof=First Second"`
}

// ResultIDsRequest selects results for approve and publish.
type ResultIDsRequest struct {
	ResultIDs []string `json:"resultIds" validate:"required,min=1,dive,required"`
}

// RejectRequest selects results to reject with a reason.
type RejectRequest struct {
	ResultIDs []string `json:"resultIds" validate:"required,min=1,dive,required"`
	Reason    string   `json:"reason"`
}

// OverrideRequest is an administrative score correction.
type OverrideRequest struct {
	CA     *float64 `json:"ca" validate:"required"`
	Exam   *float64 `json:"exam" validate:"required"`
	Reason string   `json:"reason"`
}

// ItemError reports why one item of a batch was not processed.
type ItemError struct {
	Row          int    `json:"row,omitempty"`
	ResultID     string `json:"resultId,omitempty"`
	StudentID    string `json:"studentId,omitempty"`
	MatricNumber string `json:"matricNumber,omitempty"`
	Message      string `json:"message"`
}

// BulkOutcome summarises a bulk score upload.
type BulkOutcome struct {
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
	Submitted int         `json:"submitted"`
	Errors    []ItemError `json:"errors"`
}

// ImportOutcome summarises a CSV score-sheet import.
type ImportOutcome struct {
	Uploaded int         `json:"uploaded"`
	Failed   int         `json:"failed"`
	Errors   []ItemError `json:"errors"`
}

// TransitionOutcome summarises a lifecycle operation. Items already past the
// source state are counted as skipped.
type TransitionOutcome struct {
	Processed int                         `json:"processed"`
	Skipped   int                         `json:"skipped"`
	Results   []models.TransitionedResult `json:"results"`
	Errors    []ItemError                 `json:"errors"`
	Warnings  []string                    `json:"warnings,omitempty"`
}

// OverrideOutcome carries the corrected result and any GPA refresh warnings.
type OverrideOutcome struct {
	Result   *models.Result `json:"result"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ResultListQuery is the query string of GET /results.
type ResultListQuery struct {
	StudentID  string `form:"studentId"`
	CourseID   string `form:"courseId"`
	Session    string `form:"session"`
	Semester   string `form:"semester"`
	Department string `form:"department"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

// TermQuery picks one session and semester.
type TermQuery struct {
	Session  string `form:"session" binding:"required"`
	Semester string `form:"semester" binding:"required"`
}

// ReconcileRequest selects the session swept by a GPA reconcile. An empty
// session means the active one.
type ReconcileRequest struct {
	Session string `json:"session"`
}

// ReconcileOutcome reports a GPA reconcile run.
type ReconcileOutcome struct {
	Session  string   `json:"session,omitempty"`
	Visited  int      `json:"visited"`
	Warnings []string `json:"warnings,omitempty"`
}
