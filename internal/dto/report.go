package dto

import "github.com/noah-isme/result-processing-api/internal/models"

// DepartmentReportQuery filters the department report.
type DepartmentReportQuery struct {
	Department string          `form:"department"`
	Session    string          `form:"session" validate:"required"`
	Semester   models.Semester `form:"semester" validate:"omitempty,oneof=First Second"`
}
