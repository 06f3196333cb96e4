package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusflow/timetable-api/internal/service"
	appErrors "github.com/campusflow/timetable-api/pkg/errors"
	"github.com/campusflow/timetable-api/pkg/response"
)

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary Download a term timetable
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param semester query string true "Semester"
// @Param year query int true "Year"
// @Param yearLevel query int false "Limit to one year level"
// @Param section query string false "Limit to one section"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /timetable/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	semester := c.Query("semester")
	if semester == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is required"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a number"))
		return
	}
	yearLevel, _ := strconv.Atoi(c.Query("yearLevel"))

	result, err := h.exports.Export(c.Request.Context(), service.ExportOptions{
		Semester:  semester,
		Year:      year,
		YearLevel: yearLevel,
		Section:   c.Query("section"),
		Format:    c.DefaultQuery("format", service.FormatCSV),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
