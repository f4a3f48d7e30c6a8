package utils

import "time"

// Application constants
const (
	AppName    = "FlottaPool"
	AppVersion = "1.0.0"

	// Document store collections
	CollectionVehicles = "vehicles"
	CollectionLogs     = "logs"
	CollectionBookings = "bookings"
	CollectionCounters = "counters"

	// Trip identifiers
	TripIDPadding       = 5
	DegradedTripPrefix  = "ERR-"
	DegradedTripDigits  = 4

	// Caching
	VehicleCacheTTL = 15 * time.Minute

	// Uploads (the form layer compresses photos before submitting)
	MaxPhotoSize     = 5 * 1024 * 1024
	MaxPhotosPerMove = 10

	// Roles
	RoleOperator = "operator"
	RoleGuest    = "guest"
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized"
	ErrForbidden        = "Forbidden"
)
