package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a future-dated claim on a vehicle for a time window, independent
// of any trip. Invariant: PickupAt < ReturnAt. It is deleted on cancellation
// or automatically when the checkin that satisfies it completes.
type Booking struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	Driver    string             `json:"driver" bson:"driver" validate:"required"`
	Commessa  string             `json:"commessa,omitempty" bson:"commessa,omitempty"`
	PickupAt  time.Time          `json:"pickup_at" bson:"pickup_at" validate:"required"`
	ReturnAt  time.Time          `json:"return_at" bson:"return_at" validate:"required"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// IsOverdue reports whether the booking's pickup time has passed without the
// booking having been fulfilled (it still exists, so it was not consumed).
func (b *Booking) IsOverdue(now time.Time) bool {
	return !b.PickupAt.After(now)
}

// EndsAfter reports whether the booked window is still open at the given
// instant.
func (b *Booking) EndsAfter(now time.Time) bool {
	return b.ReturnAt.After(now)
}
