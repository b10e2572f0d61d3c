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

type settingsService interface {
	List(ctx context.Context) ([]dto.ConfigurationItem, error)
	Get(ctx context.Context, key string) (*dto.ConfigurationItem, error)
	Update(ctx context.Context, key, value string, actor models.Actor) (*dto.ConfigurationItem, error)
}

// SettingsHandler exposes system settings.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler builds a new handler.
func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// List godoc
// @Summary List settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get setting by key
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} response.Envelope
// @Router /settings/{key} [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Update godoc
// @Summary Update setting
// @Tags Settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param payload body dto.UpdateConfigurationRequest true "Setting value"
// @Success 200 {object} response.Envelope
// @Router /settings/{key} [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid setting payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("key"), req.Value, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
