package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/validators"
)

func TestCheckoutHappyPath(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	entry, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if entry.TripID != "00001" {
		t.Errorf("trip id = %q, want 00001", entry.TripID)
	}
	if entry.DegradedTripID {
		t.Error("trip id must not be degraded")
	}
	if entry.Movement != models.MovementCheckout {
		t.Errorf("movement = %q, want checkout", entry.Movement)
	}

	updated, err := f.fleet.GetVehicle(ctx, vehicle.ID)
	if err != nil {
		t.Fatalf("failed to reload vehicle: %v", err)
	}
	if updated.Status != models.VehicleStatusInUse {
		t.Errorf("status = %q, want in_use", updated.Status)
	}
	if updated.Driver != "Mario Rossi" {
		t.Errorf("driver = %q, want Mario Rossi", updated.Driver)
	}
	if updated.CurrentTripID != "00001" {
		t.Errorf("current trip id = %q, want 00001", updated.CurrentTripID)
	}
	if updated.OdometerKm != 42010 {
		t.Errorf("odometer = %d, want 42010", updated.OdometerKm)
	}
	if updated.ExpectedReturn != nil {
		t.Error("expected return should stay nil when none was given")
	}
}

func TestCheckoutWhileInUse(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010)); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}

	_, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42020))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if want := "Mario Rossi"; !contains(conflict.Message, want) {
		t.Errorf("conflict message %q should name the current driver", conflict.Message)
	}

	// The rejected checkout must be a no-op.
	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if updated.CurrentTripID != "00001" {
		t.Errorf("trip id changed after rejected checkout: %q", updated.CurrentTripID)
	}
}

func TestCheckoutUnderMaintenance(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.StartMaintenance(ctx, vehicle.ID, models.MaintenanceKindService); err != nil {
		t.Fatalf("start maintenance failed: %v", err)
	}

	_, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCheckoutOdometerBelowRecorded(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)

	_, err := f.fleet.Checkout(context.Background(), vehicle.ID, checkoutRequest(41000))
	var validationErrs validators.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if _, ok := validationErrs.Fields()["odometer_km"]; !ok {
		t.Errorf("expected odometer_km error, got %v", validationErrs.Fields())
	}
}

func TestCheckinOdometerRegression(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	_, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42000))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for regressed odometer, got %v", err)
	}

	// An equal reading is accepted.
	if _, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42010)); err != nil {
		t.Fatalf("equal odometer reading must be accepted: %v", err)
	}

	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if updated.Status != models.VehicleStatusAvailable {
		t.Errorf("status = %q, want available", updated.Status)
	}
	if updated.Driver != "" || updated.CurrentTripID != "" {
		t.Errorf("driver and trip id must be cleared, got %q / %q", updated.Driver, updated.CurrentTripID)
	}
}

func TestCheckinWithoutCheckout(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)

	_, err := f.fleet.Checkin(context.Background(), vehicle.ID, checkinRequest(42010))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestMissingChecklistCarriesForward(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	req := checkinRequest(42050)
	req.Checklist["triangolo"] = false
	if _, err := f.fleet.Checkin(ctx, vehicle.ID, req); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if len(updated.MissingChecklist) != 1 || updated.MissingChecklist[0] != "triangolo" {
		t.Fatalf("missing checklist = %v, want [triangolo]", updated.MissingChecklist)
	}

	form, err := f.fleet.GetCheckoutForm(ctx, vehicle.ID)
	if err != nil {
		t.Fatalf("checkout form failed: %v", err)
	}
	if form.Checklist["triangolo"] {
		t.Error("triangolo must come pre-unchecked on the next checkout form")
	}
	if !form.Checklist["libretto"] {
		t.Error("items not recorded missing must come pre-checked")
	}
}

func TestDamageLedgerAcrossTrips(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	req := checkoutRequest(42010)
	req.Damages = "Graffio paraurti anteriore"
	if _, err := f.fleet.Checkout(ctx, vehicle.ID, req); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if len(updated.Damages) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(updated.Damages))
	}
	if updated.Damages[0].TripID != "00001" {
		t.Errorf("damage attributed to trip %q, want 00001", updated.Damages[0].TripID)
	}

	checkin := checkinRequest(42080)
	checkin.Damages = "Specchietto destro incrinato"
	if _, err := f.fleet.Checkin(ctx, vehicle.ID, checkin); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	// The ledger survives the checkin; a second trip sees both records.
	updated, _ = f.fleet.GetVehicle(ctx, vehicle.ID)
	if len(updated.Damages) != 2 {
		t.Fatalf("ledger has %d records after checkin, want 2", len(updated.Damages))
	}
}

func TestRepairClearsLedgerButNotSnapshots(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	req := checkoutRequest(42010)
	req.Damages = "Graffio portiera"
	if _, err := f.fleet.Checkout(ctx, vehicle.ID, req); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	entry, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42100))
	if err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if len(entry.DamageSnapshot) != 1 {
		t.Fatalf("checkin snapshot has %d records, want 1", len(entry.DamageSnapshot))
	}

	if _, err := f.fleet.StartMaintenance(ctx, vehicle.ID, models.MaintenanceKindRepair); err != nil {
		t.Fatalf("start repair failed: %v", err)
	}

	// Completing the wrong sub-flow is rejected and names the active one.
	_, err = f.fleet.CompleteMaintenance(ctx, vehicle.ID, models.MaintenanceKindService)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for mismatched kind, got %v", err)
	}

	repaired, err := f.fleet.CompleteMaintenance(ctx, vehicle.ID, models.MaintenanceKindRepair)
	if err != nil {
		t.Fatalf("complete repair failed: %v", err)
	}
	if len(repaired.Damages) != 0 {
		t.Errorf("repair must clear the ledger, got %v", repaired.Damages)
	}
	if repaired.Status != models.VehicleStatusAvailable {
		t.Errorf("status = %q, want available", repaired.Status)
	}
	if repaired.MaintenanceKind != "" {
		t.Errorf("maintenance kind must be cleared, got %q", repaired.MaintenanceKind)
	}

	// Snapshots inside past log entries stay untouched.
	stored, err := f.logSvc.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("failed to reload entry: %v", err)
	}
	if len(stored.DamageSnapshot) != 1 {
		t.Errorf("snapshot has %d records after repair, want 1", len(stored.DamageSnapshot))
	}
}

func TestServiceCompletionKeepsLedger(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	req := checkoutRequest(42010)
	req.Damages = "Crepa parabrezza"
	if _, err := f.fleet.Checkout(ctx, vehicle.ID, req); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42100)); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	if _, err := f.fleet.StartMaintenance(ctx, vehicle.ID, models.MaintenanceKindService); err != nil {
		t.Fatalf("start service failed: %v", err)
	}
	serviced, err := f.fleet.CompleteMaintenance(ctx, vehicle.ID, models.MaintenanceKindService)
	if err != nil {
		t.Fatalf("complete service failed: %v", err)
	}
	if len(serviced.Damages) != 1 {
		t.Errorf("routine service must not touch the ledger, got %v", serviced.Damages)
	}
}

func TestOverdueBookingBlocksCheckout(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()
	now := time.Now()

	f.addBooking(t, vehicle.ID, "Bianchi", now.Add(-2*time.Hour), now.Add(2*time.Hour))

	_, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for overdue reservation, got %v", err)
	}
	if !contains(conflict.Message, "Bianchi") {
		t.Errorf("conflict message %q should name the overdue driver", conflict.Message)
	}
}

func TestCheckoutRequiresEstimateWithOtherBookings(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()
	now := time.Now()

	f.addBooking(t, vehicle.ID, "Bianchi", now.Add(24*time.Hour), now.Add(30*time.Hour))

	// No estimate: rejected.
	_, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	var validationErrs validators.ValidationErrors
	if !errors.As(err, &validationErrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if _, ok := validationErrs.Fields()["expected_return"]; !ok {
		t.Errorf("expected expected_return error, got %v", validationErrs.Fields())
	}

	// Estimate overlapping the future booking: conflict.
	late := now.Add(26 * time.Hour)
	req := checkoutRequest(42010)
	req.ExpectedReturn = &late
	_, err = f.fleet.Checkout(ctx, vehicle.ID, req)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for overlapping estimate, got %v", err)
	}

	// Estimate ending before the booking starts: accepted.
	early := now.Add(4 * time.Hour)
	req = checkoutRequest(42010)
	req.ExpectedReturn = &early
	if _, err := f.fleet.Checkout(ctx, vehicle.ID, req); err != nil {
		t.Fatalf("checkout with compatible estimate failed: %v", err)
	}

	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if updated.ExpectedReturn == nil || !updated.ExpectedReturn.Equal(early) {
		t.Errorf("expected return not recorded on vehicle")
	}
}

func TestCheckoutFulfillsBookingAndCheckinConsumesIt(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()
	now := time.Now()

	// The driver arrives a bit late for their own reservation.
	booking := f.addBooking(t, vehicle.ID, "Mario Rossi", now.Add(-time.Hour), now.Add(3*time.Hour))

	req := checkoutRequest(42010)
	req.BookingID = booking.ID.Hex()
	if _, err := f.fleet.Checkout(ctx, vehicle.ID, req); err != nil {
		t.Fatalf("checkout fulfilling own booking failed: %v", err)
	}

	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if updated.BoundBookingID == nil || *updated.BoundBookingID != booking.ID {
		t.Fatal("fulfilled booking must be bound to the vehicle")
	}

	if _, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42050)); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	if _, err := f.bookings.GetByID(ctx, booking.ID); err == nil {
		t.Fatal("fulfilled booking must be deleted at checkin")
	}
}

func TestDegradedCheckoutStillRecorded(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	f.counters.FailNext = 1
	entry, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	if err != nil {
		t.Fatalf("checkout must not be blocked by the counter store: %v", err)
	}
	if !entry.DegradedTripID {
		t.Error("entry must be flagged for manual reconciliation")
	}
	if !contains(entry.TripID, "ERR-") {
		t.Errorf("trip id %q must carry the degraded prefix", entry.TripID)
	}
}

func TestFleetStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plates := []string{"AA111AA", "BB222BB", "CC333CC"}
	var ids []*models.Vehicle
	for i, plate := range plates {
		v, err := f.fleet.CreateVehicle(ctx, &validators.VehicleCreateRequest{
			Model:      "Fiat Panda",
			Plate:      plate,
			OdometerKm: 1000 * (i + 1),
		})
		if err != nil {
			t.Fatalf("failed to create vehicle %s: %v", plate, err)
		}
		ids = append(ids, v)
	}

	if _, err := f.fleet.Checkout(ctx, ids[0].ID, checkoutRequest(5000)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := f.fleet.StartMaintenance(ctx, ids[1].ID, models.MaintenanceKindRepair); err != nil {
		t.Fatalf("maintenance failed: %v", err)
	}

	stats, err := f.fleet.GetFleetStats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 || stats.Available != 1 || stats.InUse != 1 || stats.UnderMaintenance != 1 {
		t.Fatalf("stats = %+v, want total 3, 1/1/1 split", stats)
	}
}

func TestDuplicatePlateRejected(t *testing.T) {
	f := newFixture(t)
	f.createVehicle(t)

	_, err := f.fleet.CreateVehicle(context.Background(), &validators.VehicleCreateRequest{
		Model: "Fiat Tipo",
		Plate: "ab123cd", // normalizes to the existing plate
	})
	if err == nil {
		t.Fatal("duplicate plate must be rejected")
	}
}

func TestDeleteVehicleInUseRejected(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	err := f.fleet.DeleteVehicle(ctx, vehicle.ID)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
