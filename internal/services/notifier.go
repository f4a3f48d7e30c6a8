package services

import "flottapool/internal/models"

// ChangeNotifier is the change-notification half of the document store
// contract: interested clients (the dashboard) are told when a document they
// display has changed. Implemented by the websocket hub; nil disables
// notifications.
type ChangeNotifier interface {
	VehicleUpdated(vehicle *models.Vehicle)
	LogAppended(entry *models.LogEntry)
	BookingChanged(booking *models.Booking, action string)
}
