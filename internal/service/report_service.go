package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

const failingGrade = "F"

var reportGrades = []string{"A", "B", "C", "D", "E", failingGrade}

type departmentReportRepository interface {
	DepartmentRows(ctx context.Context, department, session string, semester models.Semester) ([]models.DepartmentReportRow, error)
}

// ReportService aggregates finalized results for heads of department.
type ReportService struct {
	repo   departmentReportRepository
	logger *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(repo departmentReportRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, logger: logger}
}

// DepartmentReport summarises hod_approved and published results of a
// department. HODs always get their own department.
func (s *ReportService) DepartmentReport(ctx context.Context, query dto.DepartmentReportQuery, actor models.Actor) (*models.DepartmentReport, error) {
	department := strings.TrimSpace(query.Department)
	if actor.IsHOD() {
		department = actor.Department
	}
	session := strings.TrimSpace(query.Session)
	switch {
	case department == "":
		return nil, appErrors.Clone(appErrors.ErrValidation, "department is required")
	case session == "":
		return nil, appErrors.Clone(appErrors.ErrValidation, "session is required")
	case query.Semester != "" && !query.Semester.Valid():
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester must be First or Second")
	}

	rows, err := s.repo.DepartmentRows(ctx, department, session, query.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build department report")
	}
	report := summarizeDepartment(rows)
	report.Department = department
	report.Session = session
	report.Semester = query.Semester
	return report, nil
}

func summarizeDepartment(rows []models.DepartmentReportRow) *models.DepartmentReport {
	report := &models.DepartmentReport{
		GradeDistribution: make(map[string]int, len(reportGrades)),
		Courses:           []models.CourseResultCount{},
	}
	for _, grade := range reportGrades {
		report.GradeDistribution[grade] = 0
	}

	points := decimal.Zero
	courseIndex := make(map[string]int)
	for _, row := range rows {
		report.TotalResults++
		report.GradeDistribution[row.Grade]++
		points = points.Add(decimal.NewFromFloat(row.GradePoint))
		if row.Grade == failingGrade {
			report.FailCount++
		} else {
			report.PassCount++
		}

		idx, ok := courseIndex[row.CourseID]
		if !ok {
			idx = len(report.Courses)
			courseIndex[row.CourseID] = idx
			report.Courses = append(report.Courses, models.CourseResultCount{
				CourseID:   row.CourseID,
				CourseCode: row.CourseCode,
				Title:      row.CourseTitle,
			})
		}
		report.Courses[idx].ResultCount++
	}

	if report.TotalResults > 0 {
		total := decimal.NewFromInt(int64(report.TotalResults))
		report.AverageGradePoint = points.Div(total).Round(2).InexactFloat64()
		report.PassRate = decimal.NewFromInt(int64(report.PassCount)).
			Mul(decimal.NewFromInt(100)).
			Div(total).
			Round(2).
			InexactFloat64()
	}
	return report
}
