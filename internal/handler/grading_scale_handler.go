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

type gradingScaleService interface {
	List(ctx context.Context) ([]models.GradingBand, error)
	Create(ctx context.Context, req dto.GradingBandRequest, actor models.Actor) (*models.GradingBand, error)
	Update(ctx context.Context, id string, req dto.GradingBandRequest, actor models.Actor) (*models.GradingBand, error)
	Delete(ctx context.Context, id string, actor models.Actor) error
	InitializeDefaults(ctx context.Context, actor models.Actor) ([]models.GradingBand, error)
}

// GradingScaleHandler administers grading bands.
type GradingScaleHandler struct {
	scales gradingScaleService
}

// NewGradingScaleHandler constructs a GradingScaleHandler.
func NewGradingScaleHandler(scales gradingScaleService) *GradingScaleHandler {
	return &GradingScaleHandler{scales: scales}
}

// List godoc
// @Summary List active grading bands
// @Tags Grading
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grading-scales [get]
func (h *GradingScaleHandler) List(c *gin.Context) {
	bands, err := h.scales.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bands, nil)
}

// Create godoc
// @Summary Add a grading band
// @Tags Grading
// @Accept json
// @Produce json
// @Param payload body dto.GradingBandRequest true "Band"
// @Success 201 {object} response.Envelope
// @Router /grading-scales [post]
func (h *GradingScaleHandler) Create(c *gin.Context) {
	var req dto.GradingBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grading band payload"))
		return
	}
	band, err := h.scales.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, band)
}

// Update godoc
// @Summary Replace a grading band
// @Tags Grading
// @Accept json
// @Produce json
// @Param id path string true "Band ID"
// @Param payload body dto.GradingBandRequest true "Band"
// @Success 200 {object} response.Envelope
// @Router /grading-scales/{id} [put]
func (h *GradingScaleHandler) Update(c *gin.Context) {
	var req dto.GradingBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grading band payload"))
		return
	}
	band, err := h.scales.Update(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, band, nil)
}

// Delete godoc
// @Summary Deactivate a grading band
// @Tags Grading
// @Param id path string true "Band ID"
// @Success 204
// @Router /grading-scales/{id} [delete]
func (h *GradingScaleHandler) Delete(c *gin.Context) {
	if err := h.scales.Delete(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// InitializeDefaults godoc
// @Summary Seed the built-in grading table
// @Tags Grading
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /grading-scales/defaults [post]
func (h *GradingScaleHandler) InitializeDefaults(c *gin.Context) {
	bands, err := h.scales.InitializeDefaults(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bands)
}
