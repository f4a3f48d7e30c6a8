package handlers

import (
	"fmt"
	"net/http"
	"time"

	"flottapool/internal/services"
	"flottapool/internal/utils"
	"flottapool/internal/validators"
	"flottapool/pkg/export"
	"flottapool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	logService services.LogService
	logger     *logger.Logger
}

func NewLogHandler(logService services.LogService, log *logger.Logger) *LogHandler {
	return &LogHandler{
		logService: logService,
		logger:     log,
	}
}

func (h *LogHandler) ListEntries(c *gin.Context) {
	entries, err := h.logService.ListEntries(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Log entry")
		return
	}

	utils.SuccessResponse(c, "Log entries retrieved successfully", entries)
}

func (h *LogHandler) GetEntry(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	entry, err := h.logService.GetEntry(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, "Log entry")
		return
	}

	utils.SuccessResponse(c, "Log entry retrieved successfully", entry)
}

func (h *LogHandler) ListTrips(c *gin.Context) {
	trips, err := h.logService.ListTrips(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Trip")
		return
	}

	utils.SuccessResponse(c, "Trips retrieved successfully", trips)
}

func (h *LogHandler) ListEntriesByVehicle(c *gin.Context) {
	vehicleID, ok := parseObjectID(c, "vehicleId")
	if !ok {
		return
	}

	entries, err := h.logService.ListEntriesByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		respondServiceError(c, h.logger, err, "Log entry")
		return
	}

	utils.SuccessResponse(c, "Log entries retrieved successfully", entries)
}

func (h *LogHandler) ListTripsByVehicle(c *gin.Context) {
	vehicleID, ok := parseObjectID(c, "vehicleId")
	if !ok {
		return
	}

	trips, err := h.logService.ListTripsByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		respondServiceError(c, h.logger, err, "Trip")
		return
	}

	utils.SuccessResponse(c, "Trips retrieved successfully", trips)
}

func (h *LogHandler) ReviseEntry(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.LogReviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	entry, err := h.logService.ReviseEntry(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Log entry")
		return
	}

	utils.SuccessResponse(c, "Log entry revised successfully", entry)
}

func (h *LogHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.logService.DeleteEntry(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err, "Log entry")
		return
	}

	utils.SuccessResponse(c, "Log entry deleted successfully", nil)
}

func (h *LogHandler) DeleteTrip(c *gin.Context) {
	tripID := c.Param("tripId")
	if tripID == "" {
		utils.BadRequestResponse(c, "Invalid tripId")
		return
	}

	deleted, err := h.logService.DeleteTrip(c.Request.Context(), tripID)
	if err != nil {
		respondServiceError(c, h.logger, err, "Trip")
		return
	}

	utils.SuccessResponse(c, "Trip deleted successfully", gin.H{"deleted": deleted})
}

// GetPhotoURL resolves a stored photo key into a short-lived download URL.
func (h *LogHandler) GetPhotoURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, "Missing key parameter")
		return
	}

	url, err := h.logService.PhotoURL(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, h.logger, err, "Photo")
		return
	}

	utils.SuccessResponse(c, "Photo URL generated successfully", gin.H{"url": url})
}

// ExportLogbook streams the full movement log as an xlsx workbook.
func (h *LogHandler) ExportLogbook(c *gin.Context) {
	entries, err := h.logService.ListEntries(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Log entry")
		return
	}

	buf, err := export.LogbookExcel(entries)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render logbook export")
		utils.InternalServerErrorResponse(c)
		return
	}

	filename := fmt.Sprintf("registro-movimenti-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
