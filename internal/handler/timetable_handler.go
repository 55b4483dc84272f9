package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ninjax26/Classroom-scheduler/internal/dto"
	"github.com/Ninjax26/Classroom-scheduler/internal/service"
	appErrors "github.com/Ninjax26/Classroom-scheduler/pkg/errors"
	"github.com/Ninjax26/Classroom-scheduler/pkg/export"
	"github.com/Ninjax26/Classroom-scheduler/pkg/response"
)

// TimetableHandler handles timetable generation and retrieval endpoints.
type TimetableHandler struct {
	service *service.TimetableService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{
		service: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// Generate godoc
// @Summary Generate a timetable from the current roster
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest false "Generation options"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	// ContentLength is -1 for chunked bodies; only a known-empty body skips binding.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Latest godoc
// @Summary Get the most recent timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Latest(c *gin.Context) {
	snapshot, err := h.service.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Export godoc
// @Summary Export the most recent timetable as CSV or PDF
// @Tags Timetable
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	dataset, err := h.service.ExportDataset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, renderErr := h.csv.Render(dataset)
		if renderErr != nil {
			response.Error(c, appErrors.Wrap(renderErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export"))
			return
		}
		response.File(c, "text/csv", fmt.Sprintf("timetable-%s.csv", stamp), payload)
	case "pdf":
		payload, renderErr := h.pdf.Render(dataset, "Weekly Timetable")
		if renderErr != nil {
			response.Error(c, appErrors.Wrap(renderErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export"))
			return
		}
		response.File(c, "application/pdf", fmt.Sprintf("timetable-%s.pdf", stamp), payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format; use csv or pdf"))
	}
}

// SolverHealth godoc
// @Summary Report solver reachability
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/solver/health [get]
func (h *TimetableHandler) SolverHealth(c *gin.Context) {
	health := h.service.SolverHealth(c.Request.Context())
	response.JSON(c, http.StatusOK, health, nil)
}
