package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"
	"flottapool/internal/validators"
	"flottapool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckoutForm is everything the checkout screen needs: the vehicle as it
// stands, the checklist prefilled from the last checkin's missing items and
// the reservations the driver may be fulfilling.
type CheckoutForm struct {
	Vehicle   *models.Vehicle   `json:"vehicle"`
	Checklist map[string]bool   `json:"checklist"`
	Bookings  []*models.Booking `json:"bookings"`
}

// FleetService owns the vehicle lifecycle: CRUD, the
// available/in_use/maintenance state machine, and the checkout/checkin
// movements that drive it.
type FleetService interface {
	CreateVehicle(ctx context.Context, req *validators.VehicleCreateRequest) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	GetVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id primitive.ObjectID, req *validators.VehicleUpdateRequest) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id primitive.ObjectID) error
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)
	GetFleetStats(ctx context.Context) (*models.FleetStats, error)

	GetCheckoutForm(ctx context.Context, id primitive.ObjectID) (*CheckoutForm, error)
	Checkout(ctx context.Context, vehicleID primitive.ObjectID, req *validators.CheckoutRequest) (*models.LogEntry, error)
	Checkin(ctx context.Context, vehicleID primitive.ObjectID, req *validators.CheckinRequest) (*models.LogEntry, error)

	StartMaintenance(ctx context.Context, vehicleID primitive.ObjectID, kind models.MaintenanceKind) (*models.Vehicle, error)
	CompleteMaintenance(ctx context.Context, vehicleID primitive.ObjectID, kind models.MaintenanceKind) (*models.Vehicle, error)
}

type fleetService struct {
	vehicles  interfaces.VehicleRepository
	bookings  interfaces.BookingRepository
	sequences SequenceService
	logs      LogService
	notifier  ChangeNotifier
	logger    *logger.Logger
}

func NewFleetService(
	vehicles interfaces.VehicleRepository,
	bookings interfaces.BookingRepository,
	sequences SequenceService,
	logs LogService,
	notifier ChangeNotifier,
	log *logger.Logger,
) FleetService {
	return &fleetService{
		vehicles:  vehicles,
		bookings:  bookings,
		sequences: sequences,
		logs:      logs,
		notifier:  notifier,
		logger:    log,
	}
}

func (s *fleetService) CreateVehicle(ctx context.Context, req *validators.VehicleCreateRequest) (*models.Vehicle, error) {
	if errs := validators.ValidateVehicleCreate(req); len(errs) > 0 {
		return nil, errs
	}

	fuel := req.FuelLevel
	if fuel == "" {
		fuel = "Pieno"
	}

	now := time.Now()
	vehicle := &models.Vehicle{
		Model:            strings.TrimSpace(req.Model),
		Plate:            strings.ToUpper(strings.TrimSpace(req.Plate)),
		OdometerKm:       req.OdometerKm,
		FuelLevel:        fuel,
		Status:           models.VehicleStatusAvailable,
		Damages:          []models.DamageRecord{},
		DamagePhotoKeys:  []string{},
		MissingChecklist: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	s.logger.WithVehicleID(vehicle.ID).WithField("plate", vehicle.Plate).Info("Vehicle added to fleet")

	if s.notifier != nil {
		s.notifier.VehicleUpdated(vehicle)
	}
	return vehicle, nil
}

func (s *fleetService) GetVehicle(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	return s.vehicles.GetByID(ctx, id)
}

func (s *fleetService) GetVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	return s.vehicles.GetByPlate(ctx, plate)
}

func (s *fleetService) UpdateVehicle(ctx context.Context, id primitive.ObjectID, req *validators.VehicleUpdateRequest) (*models.Vehicle, error) {
	if errs := validators.ValidateVehicleUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Model != "" {
		updates["model"] = strings.TrimSpace(req.Model)
	}
	if req.Plate != "" {
		updates["plate"] = strings.ToUpper(strings.TrimSpace(req.Plate))
	}
	if req.OdometerKm != nil {
		if *req.OdometerKm < vehicle.OdometerKm {
			return nil, newConflictError("odometer cannot be rewound below the recorded %d km", vehicle.OdometerKm)
		}
		updates["odometer_km"] = *req.OdometerKm
	}
	if len(updates) == 0 {
		return vehicle, nil
	}

	if err := s.vehicles.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	updated, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.VehicleUpdated(updated)
	}
	return updated, nil
}

func (s *fleetService) DeleteVehicle(ctx context.Context, id primitive.ObjectID) error {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch vehicle.Status {
	case models.VehicleStatusInUse:
		return newConflictError("vehicle %s is in use by %s and cannot be removed", vehicle.Plate, vehicle.Driver)
	case models.VehicleStatusMaintenance:
		return newConflictError("vehicle %s is under %s and cannot be removed", vehicle.Plate, maintenanceLabel(vehicle.MaintenanceKind))
	}

	bookings, err := s.bookings.ListByVehicle(ctx, id)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		if err := s.bookings.Delete(ctx, b.ID); err != nil {
			s.logger.WithBookingID(b.ID).WithError(err).Warn("Failed to remove booking of deleted vehicle")
		}
	}

	if err := s.vehicles.Delete(ctx, id); err != nil {
		return err
	}

	s.logs.DeletePhotos(ctx, vehicle.DamagePhotoKeys)
	s.logger.WithVehicleID(id).WithField("plate", vehicle.Plate).Warn("Vehicle removed from fleet")
	return nil
}

func (s *fleetService) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	return s.vehicles.List(ctx)
}

func (s *fleetService) GetFleetStats(ctx context.Context) (*models.FleetStats, error) {
	total, err := s.vehicles.GetTotalCount(ctx)
	if err != nil {
		return nil, err
	}
	available, err := s.vehicles.CountByStatus(ctx, models.VehicleStatusAvailable)
	if err != nil {
		return nil, err
	}
	inUse, err := s.vehicles.CountByStatus(ctx, models.VehicleStatusInUse)
	if err != nil {
		return nil, err
	}
	maintenance, err := s.vehicles.CountByStatus(ctx, models.VehicleStatusMaintenance)
	if err != nil {
		return nil, err
	}

	return &models.FleetStats{
		Total:            total,
		Available:        available,
		InUse:            inUse,
		UnderMaintenance: maintenance,
	}, nil
}

func (s *fleetService) GetCheckoutForm(ctx context.Context, id primitive.ObjectID) (*CheckoutForm, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CheckoutForm{
		Vehicle:   vehicle,
		Checklist: models.PrefilledChecklist(vehicle.MissingChecklist),
		Bookings:  bookings,
	}, nil
}

// Checkout hands the vehicle to a driver. On success the vehicle is in_use,
// the trip id is minted, any newly declared damage is appended to the ledger
// and a checkout entry carrying the full ledger snapshot is recorded.
func (s *fleetService) Checkout(ctx context.Context, vehicleID primitive.ObjectID, req *validators.CheckoutRequest) (*models.LogEntry, error) {
	if errs := validators.ValidateCheckout(req); len(errs) > 0 {
		return nil, errs
	}

	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	switch vehicle.Status {
	case models.VehicleStatusInUse:
		return nil, newConflictError("vehicle %s is already in use by %s", vehicle.Plate, vehicle.Driver)
	case models.VehicleStatusMaintenance:
		return nil, newConflictError("vehicle %s is under %s and cannot be checked out", vehicle.Plate, maintenanceLabel(vehicle.MaintenanceKind))
	}

	if req.OdometerKm < vehicle.OdometerKm {
		return nil, validators.ValidationErrors{{
			Field:   "odometer_km",
			Message: fmt.Sprintf("Odometer reading %d km is below the recorded %d km", req.OdometerKm, vehicle.OdometerKm),
		}}
	}

	now := time.Now()
	if req.ExpectedReturn != nil && !req.ExpectedReturn.After(now) {
		return nil, validators.ValidationErrors{{
			Field:   "expected_return",
			Message: "Expected return must be in the future",
		}}
	}

	bookings, err := s.bookings.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	fulfilled, err := s.resolveFulfilledBooking(bookings, req.BookingID)
	if err != nil {
		return nil, err
	}
	var fulfilledID *primitive.ObjectID
	if fulfilled != nil {
		fulfilledID = &fulfilled.ID
	}

	// An overdue reservation (pickup time passed, never fulfilled) blocks
	// every checkout until an operator resolves it.
	otherBookings := 0
	for _, b := range bookings {
		if fulfilledID != nil && b.ID == *fulfilledID {
			continue
		}
		otherBookings++
		if b.IsOverdue(now) {
			return nil, newConflictError("vehicle %s has an overdue reservation for %s since %s; resolve it before checking out",
				vehicle.Plate, b.Driver, b.PickupAt.Format(conflictTimeFormat))
		}
	}

	if otherBookings > 0 {
		if req.ExpectedReturn == nil {
			return nil, validators.ValidationErrors{{
				Field:   "expected_return",
				Message: "An expected return is required while other reservations exist for this vehicle",
			}}
		}
		if c := CheckConflict(vehicleID, now, *req.ExpectedReturn, bookings, fulfilledID, models.VehicleStatusAvailable, nil); c != nil {
			return nil, conflictErrorFrom(c)
		}
	}

	tripID, degraded := s.sequences.NextTripID(ctx)

	damages := append([]models.DamageRecord{}, vehicle.Damages...)
	if strings.TrimSpace(req.Damages) != "" || len(req.DamagePhotos) > 0 {
		damages = append(damages, models.DamageRecord{
			TripID:      tripID,
			Description: strings.TrimSpace(req.Damages),
		})
	}

	photos := s.logs.UploadMovementPhotos(ctx, vehicle.Plate, tripID, models.MovementCheckout,
		req.DamagePhotos, req.SignalPhotos, req.Signature)

	missing := models.MissingChecklistItems(req.Checklist)

	updates := map[string]interface{}{
		"status":            models.VehicleStatusInUse,
		"driver":            strings.TrimSpace(req.Driver),
		"commessa":          strings.TrimSpace(req.Commessa),
		"current_trip_id":   tripID,
		"expected_return":   nil,
		"bound_booking_id":  nil,
		"fuel_level":        req.FuelLevel,
		"odometer_km":       req.OdometerKm,
		"damages":           damages,
		"damage_photo_keys": append(append([]string{}, vehicle.DamagePhotoKeys...), photos.DamageKeys...),
		"missing_checklist": missing,
	}
	if req.ExpectedReturn != nil {
		updates["expected_return"] = *req.ExpectedReturn
	}
	if fulfilledID != nil {
		updates["bound_booking_id"] = *fulfilledID
	}

	if err := s.vehicles.Update(ctx, vehicleID, updates); err != nil {
		return nil, err
	}

	entry := &models.LogEntry{
		TripID:         tripID,
		DegradedTripID: degraded,
		Movement:       models.MovementCheckout,
		VehicleID:      vehicleID,
		VehicleModel:   vehicle.Model,
		Plate:          vehicle.Plate,
		Driver:         strings.TrimSpace(req.Driver),
		Commessa:       strings.TrimSpace(req.Commessa),
		Timestamp:      now,
		OdometerKm:     req.OdometerKm,
		FuelLevel:      req.FuelLevel,
		Notes:          req.Notes,
		NewDamage:      strings.TrimSpace(req.Damages),
		Checklist:      req.Checklist,
		DamageSnapshot: damages,
		DamagePhotos:   photos.DamageKeys,
		SignalPhotos:   photos.SignalKeys,
		SignatureKey:   photos.SignatureKey,
		ExpectedReturn: req.ExpectedReturn,
	}
	if err := s.logs.RecordMovement(ctx, entry); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if updated, err := s.vehicles.GetByID(ctx, vehicleID); err == nil {
			s.notifier.VehicleUpdated(updated)
		}
	}
	return entry, nil
}

func (s *fleetService) resolveFulfilledBooking(bookings []*models.Booking, bookingID string) (*models.Booking, error) {
	if bookingID == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id")
	}
	for _, b := range bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("booking not found for this vehicle")
}

// Checkin returns the vehicle to the pool. The odometer may never regress;
// an equal reading is accepted. The bound reservation, if any, is consumed.
func (s *fleetService) Checkin(ctx context.Context, vehicleID primitive.ObjectID, req *validators.CheckinRequest) (*models.LogEntry, error) {
	if errs := validators.ValidateCheckin(req); len(errs) > 0 {
		return nil, errs
	}

	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != models.VehicleStatusInUse {
		return nil, newConflictError("vehicle %s is not checked out", vehicle.Plate)
	}

	if req.OdometerKm < vehicle.OdometerKm {
		return nil, newConflictError("odometer reading %d km is lower than the recorded %d km", req.OdometerKm, vehicle.OdometerKm)
	}

	// An in-use vehicle always carries the trip id minted at checkout.
	tripID := vehicle.CurrentTripID

	damages := append([]models.DamageRecord{}, vehicle.Damages...)
	if strings.TrimSpace(req.Damages) != "" || len(req.DamagePhotos) > 0 {
		damages = append(damages, models.DamageRecord{
			TripID:      tripID,
			Description: strings.TrimSpace(req.Damages),
		})
	}

	photos := s.logs.UploadMovementPhotos(ctx, vehicle.Plate, tripID, models.MovementCheckin,
		req.DamagePhotos, req.SignalPhotos, req.Signature)

	missing := models.MissingChecklistItems(req.Checklist)

	updates := map[string]interface{}{
		"status":            models.VehicleStatusAvailable,
		"driver":            nil,
		"commessa":          nil,
		"current_trip_id":   nil,
		"expected_return":   nil,
		"bound_booking_id":  nil,
		"fuel_level":        req.FuelLevel,
		"odometer_km":       req.OdometerKm,
		"damages":           damages,
		"damage_photo_keys": append(append([]string{}, vehicle.DamagePhotoKeys...), photos.DamageKeys...),
		"missing_checklist": missing,
	}
	if err := s.vehicles.Update(ctx, vehicleID, updates); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &models.LogEntry{
		TripID:         tripID,
		Movement:       models.MovementCheckin,
		VehicleID:      vehicleID,
		VehicleModel:   vehicle.Model,
		Plate:          vehicle.Plate,
		Driver:         vehicle.Driver,
		Commessa:       vehicle.Commessa,
		Timestamp:      now,
		OdometerKm:     req.OdometerKm,
		FuelLevel:      req.FuelLevel,
		Notes:          req.Notes,
		NewDamage:      strings.TrimSpace(req.Damages),
		Checklist:      req.Checklist,
		DamageSnapshot: damages,
		DamagePhotos:   photos.DamageKeys,
		SignalPhotos:   photos.SignalKeys,
		SignatureKey:   photos.SignatureKey,
	}
	if err := s.logs.RecordMovement(ctx, entry); err != nil {
		return nil, err
	}

	if vehicle.BoundBookingID != nil {
		if err := s.bookings.Delete(ctx, *vehicle.BoundBookingID); err != nil {
			s.logger.WithBookingID(*vehicle.BoundBookingID).WithError(err).Warn("Failed to consume fulfilled booking")
		}
	}

	if s.notifier != nil {
		if updated, err := s.vehicles.GetByID(ctx, vehicleID); err == nil {
			s.notifier.VehicleUpdated(updated)
		}
	}
	return entry, nil
}

func (s *fleetService) StartMaintenance(ctx context.Context, vehicleID primitive.ObjectID, kind models.MaintenanceKind) (*models.Vehicle, error) {
	if kind != models.MaintenanceKindRepair && kind != models.MaintenanceKindService {
		return nil, validators.ValidationErrors{{
			Field:   "kind",
			Message: "Maintenance kind must be repair or service",
		}}
	}

	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	switch vehicle.Status {
	case models.VehicleStatusInUse:
		return nil, newConflictError("vehicle %s is in use by %s and cannot enter maintenance", vehicle.Plate, vehicle.Driver)
	case models.VehicleStatusMaintenance:
		return nil, newConflictError("vehicle %s is already under %s", vehicle.Plate, maintenanceLabel(vehicle.MaintenanceKind))
	}

	updates := map[string]interface{}{
		"status":           models.VehicleStatusMaintenance,
		"maintenance_kind": kind,
	}
	if err := s.vehicles.Update(ctx, vehicleID, updates); err != nil {
		return nil, err
	}

	s.logger.WithVehicleID(vehicleID).WithField("kind", string(kind)).Info("Vehicle entered maintenance")
	return s.notifyAndReload(ctx, vehicleID)
}

// CompleteMaintenance closes the active sub-flow. Completing a repair wipes
// the damage ledger and its stored photos; completing a service leaves the
// ledger untouched. Snapshots inside past log entries are never touched.
func (s *fleetService) CompleteMaintenance(ctx context.Context, vehicleID primitive.ObjectID, kind models.MaintenanceKind) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if vehicle.Status != models.VehicleStatusMaintenance {
		return nil, newConflictError("vehicle %s is not under maintenance", vehicle.Plate)
	}
	if vehicle.MaintenanceKind != kind {
		return nil, newConflictError("vehicle %s is under %s, not %s", vehicle.Plate,
			maintenanceLabel(vehicle.MaintenanceKind), maintenanceLabel(kind))
	}

	updates := map[string]interface{}{
		"status":           models.VehicleStatusAvailable,
		"maintenance_kind": nil,
	}
	if kind == models.MaintenanceKindRepair {
		s.logs.DeletePhotos(ctx, vehicle.DamagePhotoKeys)
		updates["damages"] = []models.DamageRecord{}
		updates["damage_photo_keys"] = []string{}
		updates["missing_checklist"] = []string{}
	}

	if err := s.vehicles.Update(ctx, vehicleID, updates); err != nil {
		return nil, err
	}

	s.logger.WithVehicleID(vehicleID).WithField("kind", string(kind)).Info("Vehicle maintenance completed")
	return s.notifyAndReload(ctx, vehicleID)
}

func (s *fleetService) notifyAndReload(ctx context.Context, vehicleID primitive.ObjectID) (*models.Vehicle, error) {
	updated, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.VehicleUpdated(updated)
	}
	return updated, nil
}

func maintenanceLabel(kind models.MaintenanceKind) string {
	if kind == models.MaintenanceKindService {
		return "routine service"
	}
	return "repair"
}
