package dto

// GradingBandRequest creates or replaces one grading band.
type GradingBandRequest struct {
	MinScore   *float64 `json:"minScore" validate:"required,gte=0,lte=100"`
	MaxScore   *float64 `json:"maxScore" validate:"required,gte=0,lte=100"`
	Grade      string   `json:"grade" validate:"required,max=2"`
	GradePoint *float64 `json:"gradePoint" validate:"required,gte=0,lte=5"`
}
