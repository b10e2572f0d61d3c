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

type sessionService interface {
	Create(ctx context.Context, req dto.CreateSessionRequest, actor models.Actor) (*models.AcademicSession, error)
	List(ctx context.Context) ([]models.AcademicSession, error)
	Active(ctx context.Context) (*models.AcademicSession, error)
	Activate(ctx context.Context, id string, actor models.Actor) (*models.AcademicSession, error)
	Lock(ctx context.Context, id string, semester models.Semester, actor models.Actor) (*models.AcademicSession, error)
	Unlock(ctx context.Context, id string, semester models.Semester, actor models.Actor) (*models.AcademicSession, error)
}

// SessionHandler manages academic sessions and semester locks.
type SessionHandler struct {
	sessions sessionService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions sessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List godoc
// @Summary List academic sessions
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.sessions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Active godoc
// @Summary Get the active academic session
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/active [get]
func (h *SessionHandler) Active(c *gin.Context) {
	session, err := h.sessions.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Create godoc
// @Summary Open an academic session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	session, err := h.sessions.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Activate godoc
// @Summary Make a session the active one
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/activate [post]
func (h *SessionHandler) Activate(c *gin.Context) {
	session, err := h.sessions.Activate(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Lock godoc
// @Summary Lock a semester against score changes
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param semester path string true "First or Second"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/semesters/{semester}/lock [post]
func (h *SessionHandler) Lock(c *gin.Context) {
	session, err := h.sessions.Lock(c.Request.Context(), c.Param("id"), semesterParam(c.Param("semester")), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Unlock godoc
// @Summary Reopen a locked semester
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param semester path string true "First or Second"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/semesters/{semester}/lock [delete]
func (h *SessionHandler) Unlock(c *gin.Context) {
	session, err := h.sessions.Unlock(c.Request.Context(), c.Param("id"), semesterParam(c.Param("semester")), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
