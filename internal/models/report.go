package models

// DepartmentReportRow is one finalized result feeding the department report.
type DepartmentReportRow struct {
	CourseID    string  `db:"course_id"`
	CourseCode  string  `db:"course_code"`
	CourseTitle string  `db:"course_title"`
	Grade       string  `db:"grade"`
	GradePoint  float64 `db:"grade_point"`
}

// CourseResultCount summarises results per course in a department report.
type CourseResultCount struct {
	CourseID    string `json:"course_id"`
	CourseCode  string `json:"course_code"`
	Title       string `json:"title"`
	ResultCount int    `json:"result_count"`
}

// DepartmentReport aggregates finalized results of a department for a term.
type DepartmentReport struct {
	Department        string              `json:"department"`
	Session           string              `json:"session"`
	Semester          Semester            `json:"semester,omitempty"`
	TotalResults      int                 `json:"total_results"`
	GradeDistribution map[string]int      `json:"grade_distribution"`
	AverageGradePoint float64             `json:"average_grade_point"`
	PassCount         int                 `json:"pass_count"`
	FailCount         int                 `json:"fail_count"`
	PassRate          float64             `json:"pass_rate"`
	Courses           []CourseResultCount `json:"courses"`
}
