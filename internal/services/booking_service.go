package services

import (
	"context"
	"fmt"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"
	"flottapool/internal/validators"
	"flottapool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingService manages reservations: future-dated claims on a vehicle that
// exist independently of trips. Every create and update is conflict-checked
// against the vehicle's other bookings and its current commitment.
type BookingService interface {
	CreateBooking(ctx context.Context, req *validators.BookingCreateRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id primitive.ObjectID, req *validators.BookingUpdateRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, id primitive.ObjectID) error
	ListBookings(ctx context.Context) ([]*models.Booking, error)
	ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Booking, error)

	// HasFutureCommitment reports whether the vehicle is claimed beyond the
	// present instant, by the current trip or by any reservation.
	HasFutureCommitment(ctx context.Context, vehicleID primitive.ObjectID) (bool, error)

	// DeleteExpired sweeps bookings whose window closed before now. It runs
	// only when an operator asks for it.
	DeleteExpired(ctx context.Context) (int64, error)
}

type bookingService struct {
	bookings interfaces.BookingRepository
	vehicles interfaces.VehicleRepository
	notifier ChangeNotifier
	logger   *logger.Logger
}

func NewBookingService(
	bookings interfaces.BookingRepository,
	vehicles interfaces.VehicleRepository,
	notifier ChangeNotifier,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookings: bookings,
		vehicles: vehicles,
		notifier: notifier,
		logger:   log,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *validators.BookingCreateRequest) (*models.Booking, error) {
	if errs := validators.ValidateBookingCreate(req); len(errs) > 0 {
		return nil, errs
	}

	vehicleID, err := primitive.ObjectIDFromHex(req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle id")
	}

	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookings.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if c := CheckConflict(vehicleID, req.PickupAt, req.ReturnAt, existing, nil, vehicle.Status, vehicle.ExpectedReturn); c != nil {
		if c.Reason == ConflictReasonVehicleCommitted {
			c.Driver = vehicle.Driver
		}
		return nil, conflictErrorFrom(c)
	}

	booking := &models.Booking{
		VehicleID: vehicleID,
		Driver:    req.Driver,
		Commessa:  req.Commessa,
		PickupAt:  req.PickupAt,
		ReturnAt:  req.ReturnAt,
		CreatedAt: time.Now(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.WithBookingID(booking.ID).WithVehicleID(vehicleID).
		WithField("driver", booking.Driver).Info("Booking created")

	if s.notifier != nil {
		s.notifier.BookingChanged(booking, "created")
	}
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *bookingService) UpdateBooking(ctx context.Context, id primitive.ObjectID, req *validators.BookingUpdateRequest) (*models.Booking, error) {
	if errs := validators.ValidateBookingUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookings.ListByVehicle(ctx, booking.VehicleID)
	if err != nil {
		return nil, err
	}

	// The booking being edited must not conflict with itself.
	if c := CheckConflict(booking.VehicleID, req.PickupAt, req.ReturnAt, existing, &id, vehicle.Status, vehicle.ExpectedReturn); c != nil {
		if c.Reason == ConflictReasonVehicleCommitted {
			c.Driver = vehicle.Driver
		}
		return nil, conflictErrorFrom(c)
	}

	updates := map[string]interface{}{
		"driver":    req.Driver,
		"commessa":  req.Commessa,
		"pickup_at": req.PickupAt,
		"return_at": req.ReturnAt,
	}
	if err := s.bookings.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	updated, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithBookingID(id).Info("Booking updated")

	if s.notifier != nil {
		s.notifier.BookingChanged(updated, "updated")
	}
	return updated, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id primitive.ObjectID) error {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithBookingID(id).WithVehicleID(booking.VehicleID).Info("Booking cancelled")

	if s.notifier != nil {
		s.notifier.BookingChanged(booking, "deleted")
	}
	return nil
}

func (s *bookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *bookingService) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Booking, error) {
	return s.bookings.ListByVehicle(ctx, vehicleID)
}

func (s *bookingService) HasFutureCommitment(ctx context.Context, vehicleID primitive.ObjectID) (bool, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return false, err
	}

	now := time.Now()
	if vehicle.Status == models.VehicleStatusInUse {
		if vehicle.ExpectedReturn == nil || vehicle.ExpectedReturn.After(now) {
			return true, nil
		}
	}

	bookings, err := s.bookings.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	for _, b := range bookings {
		if b.EndsAfter(now) {
			return true, nil
		}
	}
	return false, nil
}

func (s *bookingService) DeleteExpired(ctx context.Context) (int64, error) {
	deleted, err := s.bookings.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.WithField("deleted", deleted).Info("Expired bookings swept")
	}
	return deleted, nil
}
