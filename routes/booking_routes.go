package routes

import (
	"flottapool/internal/handlers"
	"flottapool/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, jwtSecret string) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.GET("", bookingHandler.ListBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.GET("/vehicle/:vehicleId", bookingHandler.ListByVehicle)
		bookings.GET("/vehicle/:vehicleId/commitment", bookingHandler.GetCommitment)

		operator := bookings.Group("")
		operator.Use(middleware.OperatorRequired())
		{
			operator.POST("", bookingHandler.CreateBooking)
			operator.PUT("/:id", bookingHandler.UpdateBooking)
			operator.DELETE("/:id", bookingHandler.CancelBooking)
			operator.POST("/sweep", bookingHandler.SweepExpired)
		}
	}
}
