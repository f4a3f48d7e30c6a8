package handlers

import (
	"flottapool/internal/models"
	"flottapool/internal/services"
	"flottapool/internal/utils"
	"flottapool/internal/validators"
	"flottapool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	fleetService services.FleetService
	logger       *logger.Logger
}

func NewFleetHandler(fleetService services.FleetService, log *logger.Logger) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
		logger:       log,
	}
}

// ListVehicles returns the whole fleet for the dashboard.
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.fleetService.ListVehicles(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Vehicles retrieved successfully", vehicles)
}

func (h *FleetHandler) GetVehicle(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.fleetService.GetVehicle(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Vehicle retrieved successfully", vehicle)
}

func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var req validators.VehicleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.fleetService.CreateVehicle(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.CreatedResponse(c, "Vehicle created successfully", vehicle)
}

func (h *FleetHandler) UpdateVehicle(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.VehicleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.fleetService.UpdateVehicle(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Vehicle updated successfully", vehicle)
}

func (h *FleetHandler) DeleteVehicle(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.fleetService.DeleteVehicle(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Vehicle deleted successfully", nil)
}

func (h *FleetHandler) GetFleetStats(c *gin.Context) {
	stats, err := h.fleetService.GetFleetStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Fleet")
		return
	}

	utils.SuccessResponse(c, "Fleet statistics retrieved successfully", stats)
}

// GetCheckoutForm returns the vehicle, its prefilled checklist and its
// reservations, ready for the checkout screen.
func (h *FleetHandler) GetCheckoutForm(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	form, err := h.fleetService.GetCheckoutForm(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Checkout form retrieved successfully", form)
}

func (h *FleetHandler) Checkout(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	entry, err := h.fleetService.Checkout(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.CreatedResponse(c, "Vehicle checked out successfully", entry)
}

func (h *FleetHandler) Checkin(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	entry, err := h.fleetService.Checkin(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.CreatedResponse(c, "Vehicle checked in successfully", entry)
}

type maintenanceRequest struct {
	Kind models.MaintenanceKind `json:"kind" binding:"required"`
}

func (h *FleetHandler) StartMaintenance(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.fleetService.StartMaintenance(c.Request.Context(), id, req.Kind)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Maintenance started successfully", vehicle)
}

func (h *FleetHandler) CompleteMaintenance(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.fleetService.CompleteMaintenance(c.Request.Context(), id, req.Kind)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Maintenance completed successfully", vehicle)
}

// GetChecklistCatalog serves the fixed catalog so clients never hardcode it.
func (h *FleetHandler) GetChecklistCatalog(c *gin.Context) {
	utils.SuccessResponse(c, "Checklist catalog retrieved successfully", gin.H{
		"items":       models.ChecklistCatalog,
		"fuel_levels": models.FuelLevels,
	})
}
