package services

import (
	"context"
	"testing"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"
	"flottapool/internal/repositories/memory"
	"flottapool/internal/validators"
	"flottapool/pkg/logger"
	"flottapool/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A one-pixel PNG, as the form layer would submit it.
const testSignature = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "text",
		Output: "stderr",
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

type fixture struct {
	vehicles interfaces.VehicleRepository
	bookings interfaces.BookingRepository
	logs     interfaces.LogRepository
	counters *memory.CounterRepository

	sequence SequenceService
	logSvc   LogService
	fleet    FleetService
	booking  BookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := newTestLogger(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}

	vehicles := memory.NewVehicleRepository()
	bookings := memory.NewBookingRepository()
	logs := memory.NewLogRepository()
	counters := memory.NewCounterRepository()

	sequence := NewSequenceService(counters, log)
	logSvc := NewLogService(logs, vehicles, store, nil, log)
	fleet := NewFleetService(vehicles, bookings, sequence, logSvc, nil, log)
	booking := NewBookingService(bookings, vehicles, nil, log)

	return &fixture{
		vehicles: vehicles,
		bookings: bookings,
		logs:     logs,
		counters: counters,
		sequence: sequence,
		logSvc:   logSvc,
		fleet:    fleet,
		booking:  booking,
	}
}

func (f *fixture) createVehicle(t *testing.T) *models.Vehicle {
	t.Helper()
	vehicle, err := f.fleet.CreateVehicle(context.Background(), &validators.VehicleCreateRequest{
		Model:      "Fiat Panda",
		Plate:      "AB123CD",
		OdometerKm: 42000,
		FuelLevel:  "Pieno",
	})
	if err != nil {
		t.Fatalf("failed to create vehicle: %v", err)
	}
	return vehicle
}

func fullChecklist() map[string]bool {
	checklist := make(map[string]bool, len(models.ChecklistCatalog))
	for _, item := range models.ChecklistCatalog {
		checklist[item.ID] = true
	}
	return checklist
}

func checkoutRequest(odometer int) *validators.CheckoutRequest {
	return &validators.CheckoutRequest{
		Driver:     "Mario Rossi",
		Commessa:   "C-1001",
		OdometerKm: odometer,
		FuelLevel:  "Pieno",
		Checklist:  fullChecklist(),
		Signature:  testSignature,
	}
}

func checkinRequest(odometer int) *validators.CheckinRequest {
	return &validators.CheckinRequest{
		OdometerKm: odometer,
		FuelLevel:  "1/2",
		Checklist:  fullChecklist(),
		Signature:  testSignature,
	}
}

func (f *fixture) addBooking(t *testing.T, vehicleID primitive.ObjectID, driver string, pickup, ret time.Time) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		VehicleID: vehicleID,
		Driver:    driver,
		PickupAt:  pickup,
		ReturnAt:  ret,
		CreatedAt: time.Now(),
	}
	if err := f.bookings.Create(context.Background(), booking); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return booking
}
