package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MovementType string

const (
	MovementCheckout MovementType = "checkout"
	MovementCheckin  MovementType = "checkin"
)

// LogEntry is the immutable record of a single checkout or checkin. A trip is
// the pairing of one checkout entry and, once it exists, one checkin entry
// sharing the same trip id; a trip with no checkin entry is open.
//
// DamageSnapshot freezes the vehicle's damage ledger as it stood at the
// moment of the movement, so the record stays accurate after later repairs
// clear the live ledger.
type LogEntry struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID         string             `json:"trip_id" bson:"trip_id"`
	DegradedTripID bool               `json:"degraded_trip_id,omitempty" bson:"degraded_trip_id,omitempty"`
	Movement       MovementType       `json:"movement" bson:"movement"`
	VehicleID      primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	VehicleModel   string             `json:"vehicle_model" bson:"vehicle_model"`
	Plate          string             `json:"plate" bson:"plate"`
	Driver         string             `json:"driver" bson:"driver"`
	Commessa       string             `json:"commessa,omitempty" bson:"commessa,omitempty"`
	Timestamp      time.Time          `json:"timestamp" bson:"timestamp"`
	OdometerKm     int                `json:"odometer_km" bson:"odometer_km"`
	FuelLevel      string             `json:"fuel_level" bson:"fuel_level"`
	Notes          string             `json:"notes,omitempty" bson:"notes,omitempty"`
	NewDamage      string             `json:"new_damage,omitempty" bson:"new_damage,omitempty"`
	Checklist      map[string]bool    `json:"checklist" bson:"checklist"`
	DamageSnapshot []DamageRecord     `json:"damage_snapshot" bson:"damage_snapshot"`
	DamagePhotos   []string           `json:"damage_photos,omitempty" bson:"damage_photos,omitempty"`
	SignalPhotos   []string           `json:"signal_photos,omitempty" bson:"signal_photos,omitempty"`
	SignatureKey   string             `json:"signature_key" bson:"signature_key"`
	ExpectedReturn *time.Time         `json:"expected_return,omitempty" bson:"expected_return,omitempty"`
	RevisedAt      *time.Time         `json:"revised_at,omitempty" bson:"revised_at,omitempty"`
}

// Trip groups the log entries sharing one trip id. Open means no checkin has
// been recorded yet.
type Trip struct {
	TripID  string      `json:"trip_id"`
	Open    bool        `json:"open"`
	Entries []*LogEntry `json:"entries"`
}
