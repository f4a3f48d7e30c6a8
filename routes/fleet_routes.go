package routes

import (
	"flottapool/internal/handlers"
	"flottapool/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupFleetRoutes wires the vehicle lifecycle endpoints. Reads need any
// valid token; every mutation needs the operator role.
func SetupFleetRoutes(r *gin.RouterGroup, fleetHandler *handlers.FleetHandler, jwtSecret string) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthRequired(jwtSecret))
	{
		vehicles.GET("", fleetHandler.ListVehicles)
		vehicles.GET("/stats", fleetHandler.GetFleetStats)
		vehicles.GET("/checklist", fleetHandler.GetChecklistCatalog)
		vehicles.GET("/:id", fleetHandler.GetVehicle)
		vehicles.GET("/:id/checkout", fleetHandler.GetCheckoutForm)

		operator := vehicles.Group("")
		operator.Use(middleware.OperatorRequired())
		{
			operator.POST("", fleetHandler.CreateVehicle)
			operator.PUT("/:id", fleetHandler.UpdateVehicle)
			operator.DELETE("/:id", fleetHandler.DeleteVehicle)

			operator.POST("/:id/checkout", fleetHandler.Checkout)
			operator.POST("/:id/checkin", fleetHandler.Checkin)

			operator.POST("/:id/maintenance", fleetHandler.StartMaintenance)
			operator.POST("/:id/maintenance/complete", fleetHandler.CompleteMaintenance)
		}
	}
}
