package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[primitive.ObjectID]*models.Booking
}

func NewBookingRepository() interfaces.BookingRepository {
	return &BookingRepository{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	r.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking not found")
	}
	return cloneBooking(booking), nil
}

func (r *BookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking not found")
	}

	for field, value := range updates {
		switch field {
		case "driver":
			booking.Driver = asString(value)
		case "commessa":
			booking.Commessa = asString(value)
		case "pickup_at":
			if t, ok := value.(time.Time); ok {
				booking.PickupAt = t
			}
		case "return_at":
			if t, ok := value.(time.Time); ok {
				booking.ReturnAt = t
			}
		}
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return fmt.Errorf("booking not found")
	}
	delete(r.bookings, id)
	return nil
}

func (r *BookingRepository) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := []*models.Booking{}
	for _, b := range r.bookings {
		if b.VehicleID == vehicleID {
			bookings = append(bookings, cloneBooking(b))
		}
	}
	sortBookings(bookings)
	return bookings, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		bookings = append(bookings, cloneBooking(b))
	}
	sortBookings(bookings)
	return bookings, nil
}

func (r *BookingRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, b := range r.bookings {
		if b.ReturnAt.Before(before) {
			delete(r.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}

func sortBookings(bookings []*models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].PickupAt.Before(bookings[j].PickupAt)
	})
}

func cloneBooking(b *models.Booking) *models.Booking {
	clone := *b
	return &clone
}
