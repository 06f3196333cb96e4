package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusflow/timetable-api/internal/dto"
	"github.com/campusflow/timetable-api/internal/service"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
	"github.com/campusflow/timetable-api/pkg/response"
)

// GeneratorHandler exposes timetable generation over HTTP.
type GeneratorHandler struct {
	generator *service.GeneratorService
}

// NewGeneratorHandler constructs a GeneratorHandler.
func NewGeneratorHandler(generator *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{generator: generator}
}

// Generate godoc
// @Summary Generate a term timetable
// @Description Runs the placement engine over the active catalog and, when save is true, replaces the term's persisted timetable.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation parameters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Security BearerAuth
// @Router /timetable/generate [post]
func (h *GeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
