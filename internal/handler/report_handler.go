package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
	"github.com/noah-isme/result-processing-api/pkg/response"
)

type reportService interface {
	DepartmentReport(ctx context.Context, query dto.DepartmentReportQuery, actor models.Actor) (*models.DepartmentReport, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Department godoc
// @Summary Department result report
// @Description Grade distribution, average grade point and pass rate per course. HODs always see their own department.
// @Tags Reports
// @Produce json
// @Param department query string false "Department, required for admins"
// @Param session query string true "Session"
// @Param semester query string false "First or Second"
// @Success 200 {object} response.Envelope
// @Router /reports/department [get]
func (h *ReportHandler) Department(c *gin.Context) {
	var query dto.DepartmentReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	if query.Semester != "" {
		query.Semester = semesterParam(string(query.Semester))
	}
	report, err := h.reports.DepartmentReport(c.Request.Context(), query, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
