package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
	"github.com/noah-isme/result-processing-api/pkg/response"
)

const defaultMaxSheetSize int64 = 2 << 20

type resultService interface {
	RecordScore(ctx context.Context, req dto.RecordScoreRequest, actor models.Actor) (*models.Result, error)
	BulkRecord(ctx context.Context, req dto.BulkRecordRequest, actor models.Actor) (*dto.BulkOutcome, error)
	ImportCSV(ctx context.Context, query dto.CourseTermQuery, sheet io.Reader, actor models.Actor) (*dto.ImportOutcome, error)
	ScoreSheetTemplate(ctx context.Context, query dto.CourseTermQuery) ([]byte, error)
	Override(ctx context.Context, id string, req dto.OverrideRequest, actor models.Actor) (*dto.OverrideOutcome, error)
	Get(ctx context.Context, id string, actor models.Actor) (*models.ResultDetail, error)
	List(ctx context.Context, filter models.ResultFilter, actor models.Actor) ([]models.ResultDetail, *models.Pagination, error)
	ForStudent(ctx context.Context, studentID string) ([]models.ResultDetail, error)
	Mine(ctx context.Context, userID string) ([]models.ResultDetail, error)
	ByCourse(ctx context.Context, query dto.CourseTermQuery) ([]models.ResultDetail, error)
}

type lifecycleService interface {
	Submit(ctx context.Context, query dto.CourseTermQuery, actor models.Actor) (*dto.TransitionOutcome, error)
	Approve(ctx context.Context, ids []string, actor models.Actor) (*dto.TransitionOutcome, error)
	Reject(ctx context.Context, ids []string, reason string, actor models.Actor) (*dto.TransitionOutcome, error)
	Publish(ctx context.Context, ids []string, actor models.Actor) (*dto.TransitionOutcome, error)
}

// ResultHandler exposes score entry, the approval workflow and result reads.
type ResultHandler struct {
	results      resultService
	lifecycle    lifecycleService
	maxSheetSize int64
}

// NewResultHandler constructs a ResultHandler. maxSheetSize bounds CSV uploads in bytes.
func NewResultHandler(results resultService, lifecycle lifecycleService, maxSheetSize int64) *ResultHandler {
	if maxSheetSize <= 0 {
		maxSheetSize = defaultMaxSheetSize
	}
	return &ResultHandler{results: results, lifecycle: lifecycle, maxSheetSize: maxSheetSize}
}

// Record godoc
// @Summary Enter or correct one score
// @Description Creates the result for the student, course, session and semester or updates the existing draft.
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.RecordScoreRequest true "Score payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Router /results [post]
func (h *ResultHandler) Record(c *gin.Context) {
	var req dto.RecordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid score payload"))
		return
	}
	req.Semester = semesterParam(string(req.Semester))
	result, err := h.results.RecordScore(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// BulkRecord godoc
// @Summary Upload many scores of one course
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.BulkRecordRequest true "Bulk payload"
// @Success 200 {object} response.Envelope
// @Router /results/bulk [post]
func (h *ResultHandler) BulkRecord(c *gin.Context) {
	var req dto.BulkRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk payload"))
		return
	}
	req.Semester = semesterParam(string(req.Semester))
	outcome, err := h.results.BulkRecord(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Import godoc
// @Summary Import a CSV score sheet
// @Description Columns are matricNumber, CA and exam. Rows that fail are reported and the rest are saved.
// @Tags Results
// @Accept multipart/form-data
// @Produce json
// @Param courseId formData string true "Course ID"
// @Param session formData string true "Session, e.g. 2023/2024"
// @Param semester formData string true "First or Second"
// @Param file formData file true "CSV score sheet"
// @Success 200 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /results/import [post]
func (h *ResultHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSheetSize+(1<<16))

	query := dto.CourseTermQuery{
		CourseID: strings.TrimSpace(c.PostForm("courseId")),
		Session:  strings.TrimSpace(c.PostForm("session")),
		Semester: semesterParam(c.PostForm("semester")),
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Clone(appErrors.ErrTooLarge, "score sheet is too large"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	if header.Size > h.maxSheetSize {
		response.Error(c, appErrors.Clone(appErrors.ErrTooLarge, "score sheet is too large"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read file"))
		return
	}
	defer file.Close()

	outcome, err := h.results.ImportCSV(c.Request.Context(), query, file, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Template godoc
// @Summary Download a score sheet for a course
// @Tags Results
// @Produce text/csv
// @Param id path string true "Course ID"
// @Param session query string true "Session"
// @Param semester query string true "First or Second"
// @Success 200 {file} file
// @Router /courses/{id}/results/template [get]
func (h *ResultHandler) Template(c *gin.Context) {
	query := dto.CourseTermQuery{CourseID: c.Param("id"), Session: c.Query("session"), Semester: semesterParam(c.Query("semester"))}
	sheet, err := h.results.ScoreSheetTemplate(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="score-sheet.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", sheet)
}

// Submit godoc
// @Summary Submit the caller's drafts of a course
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.CourseTermQuery true "Course term"
// @Success 200 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Router /results/submit [post]
func (h *ResultHandler) Submit(c *gin.Context) {
	var req dto.CourseTermQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submit payload"))
		return
	}
	req.Semester = semesterParam(string(req.Semester))
	outcome, err := h.lifecycle.Submit(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Approve godoc
// @Summary Approve submitted results
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.ResultIDsRequest true "Result IDs"
// @Success 200 {object} response.Envelope
// @Router /results/approve [post]
func (h *ResultHandler) Approve(c *gin.Context) {
	var req dto.ResultIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return
	}
	outcome, err := h.lifecycle.Approve(c.Request.Context(), req.ResultIDs, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Reject godoc
// @Summary Reject submitted results
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.RejectRequest true "Result IDs and reason"
// @Success 200 {object} response.Envelope
// @Router /results/reject [post]
func (h *ResultHandler) Reject(c *gin.Context) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
		return
	}
	outcome, err := h.lifecycle.Reject(c.Request.Context(), req.ResultIDs, req.Reason, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Publish godoc
// @Summary Publish results to students
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.ResultIDsRequest true "Result IDs"
// @Success 200 {object} response.Envelope
// @Router /results/publish [post]
func (h *ResultHandler) Publish(c *gin.Context) {
	var req dto.ResultIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid publish payload"))
		return
	}
	outcome, err := h.lifecycle.Publish(c.Request.Context(), req.ResultIDs, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// Override godoc
// @Summary Override a result's scores
// @Tags Results
// @Accept json
// @Produce json
// @Param id path string true "Result ID"
// @Param payload body dto.OverrideRequest true "Corrected scores and reason"
// @Success 200 {object} response.Envelope
// @Router /results/{id}/override [put]
func (h *ResultHandler) Override(c *gin.Context) {
	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid override payload"))
		return
	}
	outcome, err := h.results.Override(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}

// List godoc
// @Summary List results
// @Tags Results
// @Produce json
// @Param studentId query string false "Student ID"
// @Param courseId query string false "Course ID"
// @Param session query string false "Session"
// @Param semester query string false "First or Second"
// @Param department query string false "Course department"
// @Param status query string false "Comma separated statuses"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	var query dto.ResultListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	filter := models.ResultFilter{
		StudentID:  query.StudentID,
		CourseID:   query.CourseID,
		Session:    query.Session,
		Department: query.Department,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	if query.Semester != "" {
		filter.Semester = semesterParam(query.Semester)
	}
	for _, status := range strings.Split(query.Status, ",") {
		if status = strings.TrimSpace(status); status != "" {
			filter.Statuses = append(filter.Statuses, models.ResultStatus(strings.ToLower(status)))
		}
	}

	items, pagination, err := h.results.List(c.Request.Context(), filter, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a result
// @Tags Results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results/{id} [get]
func (h *ResultHandler) Get(c *gin.Context) {
	result, err := h.results.Get(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Mine godoc
// @Summary Published results of the signed-in student
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /results/me [get]
func (h *ResultHandler) Mine(c *gin.Context) {
	items, err := h.results.Mine(c.Request.Context(), actorFromContext(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ForStudent godoc
// @Summary Results of a student
// @Tags Results
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/results [get]
func (h *ResultHandler) ForStudent(c *gin.Context) {
	items, err := h.results.ForStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ByCourse godoc
// @Summary Results of a course offering
// @Tags Results
// @Produce json
// @Param id path string true "Course ID"
// @Param session query string true "Session"
// @Param semester query string true "First or Second"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/results [get]
func (h *ResultHandler) ByCourse(c *gin.Context) {
	query := dto.CourseTermQuery{CourseID: c.Param("id"), Session: c.Query("session"), Semester: semesterParam(c.Query("semester"))}
	items, err := h.results.ByCourse(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
