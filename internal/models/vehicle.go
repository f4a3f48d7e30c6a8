package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusInUse       VehicleStatus = "in_use"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

// MaintenanceKind distinguishes the two maintenance sub-flows. It is set only
// while Status is VehicleStatusMaintenance; a repair completion clears the
// damage ledger, a routine service does not.
type MaintenanceKind string

const (
	MaintenanceKindRepair  MaintenanceKind = "repair"
	MaintenanceKindService MaintenanceKind = "service"
)

// DamageRecord is one entry of a vehicle's persistent damage ledger. It names
// the trip that produced it and survives across trips until a repair
// completion wipes the ledger.
type DamageRecord struct {
	TripID      string `json:"trip_id" bson:"trip_id"`
	Description string `json:"description" bson:"description"`
}

type Vehicle struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Model           string              `json:"model" bson:"model" validate:"required"`
	Plate           string              `json:"plate" bson:"plate" validate:"required"`
	OdometerKm      int                 `json:"odometer_km" bson:"odometer_km"`
	FuelLevel       string              `json:"fuel_level" bson:"fuel_level"`
	Status          VehicleStatus       `json:"status" bson:"status" default:"available"`
	MaintenanceKind MaintenanceKind     `json:"maintenance_kind,omitempty" bson:"maintenance_kind,omitempty"`
	Driver          string              `json:"driver,omitempty" bson:"driver,omitempty"`
	Commessa        string              `json:"commessa,omitempty" bson:"commessa,omitempty"`
	CurrentTripID   string              `json:"current_trip_id,omitempty" bson:"current_trip_id,omitempty"`
	BoundBookingID  *primitive.ObjectID `json:"bound_booking_id,omitempty" bson:"bound_booking_id,omitempty"`
	// ExpectedReturn is nil when the current driver gave no return estimate.
	// A nil value while in use means the vehicle is committed indefinitely.
	ExpectedReturn   *time.Time     `json:"expected_return,omitempty" bson:"expected_return,omitempty"`
	Damages          []DamageRecord `json:"damages" bson:"damages"`
	DamagePhotoKeys  []string       `json:"damage_photo_keys" bson:"damage_photo_keys"`
	MissingChecklist []string       `json:"missing_checklist" bson:"missing_checklist"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsUnderMaintenance reports whether either maintenance sub-flow is active.
func (v *Vehicle) IsUnderMaintenance() bool {
	return v.Status == VehicleStatusMaintenance
}

// HasDamage reports whether the live damage ledger is non-empty.
func (v *Vehicle) HasDamage() bool {
	return len(v.Damages) > 0
}

type FleetStats struct {
	Total            int64 `json:"total"`
	Available        int64 `json:"available"`
	InUse            int64 `json:"in_use"`
	UnderMaintenance int64 `json:"under_maintenance"`
}
