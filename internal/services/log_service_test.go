package services

import (
	"context"
	"testing"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/validators"
)

func TestListTripsGroupsEntries(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42100)); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42100)); err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}

	trips, err := f.logSvc.ListTrips(ctx)
	if err != nil {
		t.Fatalf("list trips failed: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(trips))
	}

	// Newest trip first, and it is still open.
	if trips[0].TripID != "00002" || !trips[0].Open {
		t.Errorf("first trip = %s (open=%v), want open 00002", trips[0].TripID, trips[0].Open)
	}
	if trips[1].TripID != "00001" || trips[1].Open {
		t.Errorf("second trip = %s (open=%v), want closed 00001", trips[1].TripID, trips[1].Open)
	}

	// Entries within a trip run chronologically: checkout before checkin.
	closed := trips[1]
	if len(closed.Entries) != 2 {
		t.Fatalf("closed trip has %d entries, want 2", len(closed.Entries))
	}
	if closed.Entries[0].Movement != models.MovementCheckout || closed.Entries[1].Movement != models.MovementCheckin {
		t.Errorf("entries out of order: %s, %s", closed.Entries[0].Movement, closed.Entries[1].Movement)
	}
}

func TestReviseLatestEntryReconcilesVehicle(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	req := checkinRequest(42100)
	req.Damages = "Graffio lieve"
	entry, err := f.fleet.Checkin(ctx, vehicle.ID, req)
	if err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	revised, err := f.logSvc.ReviseEntry(ctx, entry.ID, &validators.LogReviseRequest{
		OdometerKm: 42120,
		FuelLevel:  "1/4",
		NewDamage:  "Graffio profondo portiera",
		Checklist:  fullChecklist(),
		Signature:  testSignature,
	})
	if err != nil {
		t.Fatalf("revise failed: %v", err)
	}
	if revised.RevisedAt == nil {
		t.Fatal("revised entry must carry a revision timestamp")
	}
	if revised.OdometerKm != 42120 {
		t.Errorf("entry odometer = %d, want 42120", revised.OdometerKm)
	}

	// The entry is the vehicle's latest: live state follows the revision.
	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if updated.OdometerKm != 42120 {
		t.Errorf("vehicle odometer = %d, want 42120", updated.OdometerKm)
	}
	if updated.FuelLevel != "1/4" {
		t.Errorf("vehicle fuel = %q, want 1/4", updated.FuelLevel)
	}
	if len(updated.Damages) != 1 || updated.Damages[0].Description != "Graffio profondo portiera" {
		t.Errorf("ledger description not reconciled: %v", updated.Damages)
	}
}

func TestReviseOlderEntryLeavesVehicleAlone(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	checkout, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42100)); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	// Revising the superseded checkout entry must not rewind live state.
	if _, err := f.logSvc.ReviseEntry(ctx, checkout.ID, &validators.LogReviseRequest{
		OdometerKm: 42015,
		FuelLevel:  "3/4",
		Checklist:  fullChecklist(),
		Signature:  testSignature,
	}); err != nil {
		t.Fatalf("revise failed: %v", err)
	}

	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if updated.OdometerKm != 42100 {
		t.Errorf("vehicle odometer = %d, want 42100 untouched", updated.OdometerKm)
	}
}

func TestReviseReplacesSignature(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	entry, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if entry.SignatureKey == "" {
		t.Fatal("checkout must store a signature")
	}

	revised, err := f.logSvc.ReviseEntry(ctx, entry.ID, &validators.LogReviseRequest{
		OdometerKm: 42020,
		FuelLevel:  "3/4",
		Checklist:  fullChecklist(),
		Signature:  testSignature,
	})
	if err != nil {
		t.Fatalf("revise failed: %v", err)
	}

	// The fresh signature attests to the revised figures; the pre-revision
	// key must not survive.
	if revised.SignatureKey == "" || revised.SignatureKey == entry.SignatureKey {
		t.Errorf("signature key not replaced: %q", revised.SignatureKey)
	}

	stored, err := f.logSvc.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("get entry failed: %v", err)
	}
	if stored.SignatureKey != revised.SignatureKey {
		t.Errorf("persisted key %q, want %q", stored.SignatureKey, revised.SignatureKey)
	}
}

func TestReviseIntroducesDamageRecord(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	entry, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42100))
	if err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	// The movement declared no damage, so there is no ledger record to
	// rename; the revision must append one.
	if _, err := f.logSvc.ReviseEntry(ctx, entry.ID, &validators.LogReviseRequest{
		OdometerKm: 42100,
		FuelLevel:  "1/2",
		NewDamage:  "Paraurti ammaccato",
		Checklist:  fullChecklist(),
		Signature:  testSignature,
	}); err != nil {
		t.Fatalf("revise failed: %v", err)
	}

	updated, _ := f.fleet.GetVehicle(ctx, vehicle.ID)
	if len(updated.Damages) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(updated.Damages))
	}
	if updated.Damages[0].TripID != "00001" || updated.Damages[0].Description != "Paraurti ammaccato" {
		t.Errorf("unexpected ledger record: %+v", updated.Damages[0])
	}
}

func TestReviseRequiresSignature(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	entry, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	_, err = f.logSvc.ReviseEntry(ctx, entry.ID, &validators.LogReviseRequest{
		OdometerKm: 42020,
		FuelLevel:  "Pieno",
		Checklist:  fullChecklist(),
	})
	if err == nil {
		t.Fatal("revision without a fresh signature must be rejected")
	}
}

func TestDeleteTripRemovesAllEntries(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	if _, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010)); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if _, err := f.fleet.Checkin(ctx, vehicle.ID, checkinRequest(42100)); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}

	deleted, err := f.logSvc.DeleteTrip(ctx, "00001")
	if err != nil {
		t.Fatalf("delete trip failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted %d entries, want 2", deleted)
	}

	entries, _ := f.logSvc.ListEntries(ctx)
	if len(entries) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(entries))
	}
}

func TestUploadMovementPhotosStoresAndSkips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photos := f.logSvc.UploadMovementPhotos(ctx, "AB 123 CD", "00007", models.MovementCheckout,
		[]string{testSignature, "not-a-valid-photo!!!"}, nil, testSignature)

	// One damage photo decodes, the garbage one is skipped without failing
	// the movement.
	if len(photos.DamageKeys) != 1 {
		t.Fatalf("stored %d damage photos, want 1", len(photos.DamageKeys))
	}
	if photos.SignatureKey == "" {
		t.Fatal("signature must be stored")
	}

	if !contains(photos.DamageKeys[0], "vehicles/AB-123-CD/trips/00007/") {
		t.Errorf("unexpected key layout: %s", photos.DamageKeys[0])
	}
}

func TestMovementTimestampsAssigned(t *testing.T) {
	f := newFixture(t)
	vehicle := f.createVehicle(t)
	ctx := context.Background()

	before := time.Now()
	entry, err := f.fleet.Checkout(ctx, vehicle.ID, checkoutRequest(42010))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if entry.Timestamp.Before(before.Add(-time.Second)) {
		t.Errorf("timestamp %v predates the movement", entry.Timestamp)
	}
	if entry.ID.IsZero() {
		t.Error("entry id not assigned")
	}
}
