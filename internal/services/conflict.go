package services

import (
	"fmt"
	"time"

	"flottapool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConflictReason string

const (
	ConflictReasonInvalidWindow    ConflictReason = "invalid_window"
	ConflictReasonBookingOverlap   ConflictReason = "booking_overlap"
	ConflictReasonVehicleCommitted ConflictReason = "vehicle_committed"
)

// Conflict describes why a candidate time window cannot be granted.
type Conflict struct {
	Reason    ConflictReason      `json:"reason"`
	BookingID *primitive.ObjectID `json:"booking_id,omitempty"`
	Driver    string              `json:"driver,omitempty"`
	Start     time.Time           `json:"start,omitempty"`
	End       time.Time           `json:"end,omitempty"`
}

const conflictTimeFormat = "02 Jan 2006 15:04"

func (c *Conflict) Message() string {
	switch c.Reason {
	case ConflictReasonInvalidWindow:
		return "invalid time window: start must precede end"
	case ConflictReasonBookingOverlap:
		return fmt.Sprintf("window overlaps the booking for %s from %s to %s",
			c.Driver, c.Start.Format(conflictTimeFormat), c.End.Format(conflictTimeFormat))
	case ConflictReasonVehicleCommitted:
		if c.End.IsZero() {
			return "vehicle is in use with no expected return recorded; a return estimate is required before it can be booked"
		}
		if c.Driver == "" {
			return fmt.Sprintf("vehicle is in use until %s", c.End.Format(conflictTimeFormat))
		}
		return fmt.Sprintf("vehicle is in use by %s until %s", c.Driver, c.End.Format(conflictTimeFormat))
	}
	return "window conflicts with an existing commitment"
}

// CheckConflict decides whether the candidate window [newStart, newEnd) is
// free for the vehicle, given a caller-supplied snapshot of its bookings and
// its current commitment. It is pure: no I/O, deterministic for a given
// snapshot.
//
// Overlap is half-open: two windows conflict iff newStart < b.ReturnAt and
// newEnd > b.PickupAt, so touching endpoints never conflict. The booking
// identified by excludeBookingID (the one being edited or fulfilled) is
// skipped. A vehicle in use counts as an implicit reservation from now until
// its expected return; with no expected return recorded it is committed
// indefinitely and every candidate window conflicts.
func CheckConflict(
	vehicleID primitive.ObjectID,
	newStart, newEnd time.Time,
	bookings []*models.Booking,
	excludeBookingID *primitive.ObjectID,
	status models.VehicleStatus,
	expectedReturn *time.Time,
) *Conflict {
	if !newStart.Before(newEnd) {
		return &Conflict{Reason: ConflictReasonInvalidWindow}
	}

	for _, b := range bookings {
		if b.VehicleID != vehicleID {
			continue
		}
		if excludeBookingID != nil && b.ID == *excludeBookingID {
			continue
		}
		if newStart.Before(b.ReturnAt) && newEnd.After(b.PickupAt) {
			// First match wins.
			id := b.ID
			return &Conflict{
				Reason:    ConflictReasonBookingOverlap,
				BookingID: &id,
				Driver:    b.Driver,
				Start:     b.PickupAt,
				End:       b.ReturnAt,
			}
		}
	}

	if status == models.VehicleStatusInUse {
		if expectedReturn == nil {
			return &Conflict{Reason: ConflictReasonVehicleCommitted}
		}
		if expectedReturn.After(newStart) {
			return &Conflict{
				Reason: ConflictReasonVehicleCommitted,
				Start:  newStart,
				End:    *expectedReturn,
			}
		}
	}

	return nil
}
