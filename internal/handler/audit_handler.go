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

type auditLogService interface {
	List(ctx context.Context, query dto.AuditLogQuery) ([]models.AuditLog, *models.Pagination, error)
}

// AuditHandler serves the audit trail.
type AuditHandler struct {
	logs auditLogService
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(logs auditLogService) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// List godoc
// @Summary List audit log entries
// @Tags Audit
// @Produce json
// @Param actorId query string false "Actor ID"
// @Param action query string false "Action, e.g. PUBLISH_RESULTS"
// @Param resource query string false "Resource"
// @Param resourceId query string false "Resource ID"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD, inclusive"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var query dto.AuditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	logs, pagination, err := h.logs.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, pagination)
}
