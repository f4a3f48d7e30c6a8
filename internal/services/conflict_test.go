package services

import (
	"testing"
	"time"

	"flottapool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mkBooking(vehicleID primitive.ObjectID, driver string, pickup, ret time.Time) *models.Booking {
	return &models.Booking{
		ID:        primitive.NewObjectID(),
		VehicleID: vehicleID,
		Driver:    driver,
		PickupAt:  pickup,
		ReturnAt:  ret,
	}
}

func TestCheckConflictInvalidWindow(t *testing.T) {
	vehicleID := primitive.NewObjectID()
	now := time.Now()

	c := CheckConflict(vehicleID, now, now, nil, nil, models.VehicleStatusAvailable, nil)
	if c == nil || c.Reason != ConflictReasonInvalidWindow {
		t.Fatalf("expected invalid_window conflict, got %+v", c)
	}

	c = CheckConflict(vehicleID, now.Add(time.Hour), now, nil, nil, models.VehicleStatusAvailable, nil)
	if c == nil || c.Reason != ConflictReasonInvalidWindow {
		t.Fatalf("expected invalid_window conflict for reversed window, got %+v", c)
	}
}

func TestCheckConflictOverlap(t *testing.T) {
	vehicleID := primitive.NewObjectID()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	booking := mkBooking(vehicleID, "Rossi", base, base.Add(4*time.Hour))
	bookings := []*models.Booking{booking}

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		conflict bool
	}{
		{"fully inside", base.Add(time.Hour), base.Add(2 * time.Hour), true},
		{"straddles start", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"straddles end", base.Add(3 * time.Hour), base.Add(5 * time.Hour), true},
		{"engulfs", base.Add(-time.Hour), base.Add(5 * time.Hour), true},
		{"before", base.Add(-3 * time.Hour), base.Add(-2 * time.Hour), false},
		{"after", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
		{"touches end exactly", base.Add(4 * time.Hour), base.Add(6 * time.Hour), false},
		{"touches start exactly", base.Add(-2 * time.Hour), base, false},
	}

	for _, tc := range cases {
		c := CheckConflict(vehicleID, tc.start, tc.end, bookings, nil, models.VehicleStatusAvailable, nil)
		if tc.conflict && c == nil {
			t.Errorf("%s: expected conflict, got none", tc.name)
		}
		if !tc.conflict && c != nil {
			t.Errorf("%s: expected no conflict, got %+v", tc.name, c)
		}
		if tc.conflict && c != nil {
			if c.Reason != ConflictReasonBookingOverlap {
				t.Errorf("%s: expected booking_overlap, got %s", tc.name, c.Reason)
			}
			if c.Driver != "Rossi" {
				t.Errorf("%s: conflict should name the booked driver, got %q", tc.name, c.Driver)
			}
		}
	}
}

func TestCheckConflictIgnoresOtherVehicles(t *testing.T) {
	vehicleID := primitive.NewObjectID()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	other := mkBooking(primitive.NewObjectID(), "Bianchi", base, base.Add(4*time.Hour))

	c := CheckConflict(vehicleID, base, base.Add(time.Hour), []*models.Booking{other}, nil, models.VehicleStatusAvailable, nil)
	if c != nil {
		t.Fatalf("booking on another vehicle must not conflict, got %+v", c)
	}
}

func TestCheckConflictExcludesEditedBooking(t *testing.T) {
	vehicleID := primitive.NewObjectID()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	booking := mkBooking(vehicleID, "Rossi", base, base.Add(4*time.Hour))

	c := CheckConflict(vehicleID, base.Add(time.Hour), base.Add(2*time.Hour),
		[]*models.Booking{booking}, &booking.ID, models.VehicleStatusAvailable, nil)
	if c != nil {
		t.Fatalf("the edited booking must not conflict with itself, got %+v", c)
	}
}

func TestCheckConflictVehicleInUse(t *testing.T) {
	vehicleID := primitive.NewObjectID()
	now := time.Now()
	expected := now.Add(3 * time.Hour)

	// Window starting before the expected return conflicts.
	c := CheckConflict(vehicleID, now.Add(time.Hour), now.Add(5*time.Hour), nil, nil, models.VehicleStatusInUse, &expected)
	if c == nil || c.Reason != ConflictReasonVehicleCommitted {
		t.Fatalf("expected vehicle_committed conflict, got %+v", c)
	}

	// Window starting at or after the expected return does not.
	c = CheckConflict(vehicleID, expected, expected.Add(time.Hour), nil, nil, models.VehicleStatusInUse, &expected)
	if c != nil {
		t.Fatalf("window after expected return must not conflict, got %+v", c)
	}
}

func TestCheckConflictVehicleInUseNoEstimate(t *testing.T) {
	vehicleID := primitive.NewObjectID()
	farFuture := time.Now().AddDate(1, 0, 0)

	// No expected return recorded: committed indefinitely, every window
	// conflicts.
	c := CheckConflict(vehicleID, farFuture, farFuture.Add(time.Hour), nil, nil, models.VehicleStatusInUse, nil)
	if c == nil || c.Reason != ConflictReasonVehicleCommitted {
		t.Fatalf("expected indefinite commitment conflict, got %+v", c)
	}
	if c.Message() == "" {
		t.Fatal("conflict message must not be empty")
	}
}

func TestCheckConflictFirstMatchWins(t *testing.T) {
	vehicleID := primitive.NewObjectID()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	first := mkBooking(vehicleID, "Rossi", base, base.Add(2*time.Hour))
	second := mkBooking(vehicleID, "Bianchi", base.Add(3*time.Hour), base.Add(5*time.Hour))

	c := CheckConflict(vehicleID, base, base.Add(6*time.Hour),
		[]*models.Booking{first, second}, nil, models.VehicleStatusAvailable, nil)
	if c == nil || c.Driver != "Rossi" {
		t.Fatalf("expected first overlapping booking to be reported, got %+v", c)
	}
}
