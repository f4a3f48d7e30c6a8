package routes

import (
	"flottapool/internal/handlers"
	"flottapool/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupLogRoutes(r *gin.RouterGroup, logHandler *handlers.LogHandler, jwtSecret string) {
	logs := r.Group("/logs")
	logs.Use(middleware.AuthRequired(jwtSecret))
	{
		logs.GET("", logHandler.ListEntries)
		logs.GET("/trips", logHandler.ListTrips)
		logs.GET("/export", logHandler.ExportLogbook)
		logs.GET("/photos", logHandler.GetPhotoURL)
		logs.GET("/vehicle/:vehicleId", logHandler.ListEntriesByVehicle)
		logs.GET("/vehicle/:vehicleId/trips", logHandler.ListTripsByVehicle)
		logs.GET("/:id", logHandler.GetEntry)

		operator := logs.Group("")
		operator.Use(middleware.OperatorRequired())
		{
			operator.PUT("/:id", logHandler.ReviseEntry)
			operator.DELETE("/:id", logHandler.DeleteEntry)
			operator.DELETE("/trips/:tripId", logHandler.DeleteTrip)
		}
	}
}
