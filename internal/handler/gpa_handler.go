package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
	"github.com/noah-isme/result-processing-api/pkg/response"
)

type gpaService interface {
	GetStudentGPA(ctx context.Context, term models.StudentTerm) (*models.GPARecord, error)
	Mine(ctx context.Context, userID, session string, semester models.Semester) (*models.GPARecord, error)
	History(ctx context.Context, studentID string) ([]models.GPARecord, error)
	Recompute(ctx context.Context, studentID string) ([]models.GPARecord, error)
	Reconcile(ctx context.Context, session string) (int, []string, error)
}

// GPAHandler serves GPA and CGPA snapshots.
type GPAHandler struct {
	gpa gpaService
}

// NewGPAHandler constructs a GPAHandler.
func NewGPAHandler(gpa gpaService) *GPAHandler {
	return &GPAHandler{gpa: gpa}
}

// Student godoc
// @Summary GPA of a student for one semester
// @Tags GPA
// @Produce json
// @Param id path string true "Student ID"
// @Param session query string true "Session"
// @Param semester query string true "First or Second"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa [get]
func (h *GPAHandler) Student(c *gin.Context) {
	var query dto.TermQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "session and semester are required"))
		return
	}
	term := models.StudentTerm{StudentID: c.Param("id"), Session: query.Session, Semester: semesterParam(query.Semester)}
	record, err := h.gpa.GetStudentGPA(c.Request.Context(), term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Mine godoc
// @Summary GPA of the signed-in student
// @Tags GPA
// @Produce json
// @Param session query string true "Session"
// @Param semester query string true "First or Second"
// @Success 200 {object} response.Envelope
// @Router /gpa/me [get]
func (h *GPAHandler) Mine(c *gin.Context) {
	var query dto.TermQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "session and semester are required"))
		return
	}
	record, err := h.gpa.Mine(c.Request.Context(), actorFromContext(c).ID, query.Session, semesterParam(query.Semester))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// History godoc
// @Summary Stored GPA snapshots of a student
// @Tags GPA
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa/history [get]
func (h *GPAHandler) History(c *gin.Context) {
	records, err := h.gpa.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Recompute godoc
// @Summary Recompute every GPA snapshot of a student
// @Tags GPA
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa/recompute [post]
func (h *GPAHandler) Recompute(c *gin.Context) {
	records, err := h.gpa.Recompute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Reconcile godoc
// @Summary Recompute GPA snapshots of a whole session
// @Tags GPA
// @Accept json
// @Produce json
// @Param payload body dto.ReconcileRequest false "Session, defaults to the active one"
// @Success 200 {object} response.Envelope
// @Router /gpa/reconcile [post]
func (h *GPAHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reconcile payload"))
			return
		}
	}
	visited, warnings, err := h.gpa.Reconcile(c.Request.Context(), req.Session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ReconcileOutcome{Session: req.Session, Visited: visited, Warnings: warnings}, nil)
}
