package handlers

import (
	"flottapool/internal/services"
	"flottapool/internal/utils"
	"flottapool/internal/validators"
	"flottapool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
	logger         *logger.Logger
}

func NewBookingHandler(bookingService services.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         log,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req validators.BookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Booking")
		return
	}

	utils.CreatedResponse(c, "Booking created successfully", booking)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req validators.BookingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Booking updated successfully", booking)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.bookingService.CancelBooking(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Booking cancelled successfully", nil)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) ListByVehicle(c *gin.Context) {
	vehicleID, ok := parseObjectID(c, "vehicleId")
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		respondServiceError(c, h.logger, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Bookings retrieved successfully", bookings)
}

// GetCommitment reports whether the vehicle is claimed beyond the present
// instant, by its current trip or by any reservation.
func (h *BookingHandler) GetCommitment(c *gin.Context) {
	vehicleID, ok := parseObjectID(c, "vehicleId")
	if !ok {
		return
	}

	committed, err := h.bookingService.HasFutureCommitment(c.Request.Context(), vehicleID)
	if err != nil {
		respondServiceError(c, h.logger, err, "Vehicle")
		return
	}

	utils.SuccessResponse(c, "Commitment retrieved successfully", gin.H{"committed": committed})
}

// SweepExpired deletes bookings whose window has fully passed. Operator-only
// and explicitly requested, never scheduled.
func (h *BookingHandler) SweepExpired(c *gin.Context) {
	deleted, err := h.bookingService.DeleteExpired(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Expired bookings swept successfully", gin.H{"deleted": deleted})
}
