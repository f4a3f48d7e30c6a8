package interfaces

import (
	"context"
	"time"

	"flottapool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListByVehicle returns the vehicle's bookings sorted by pickup time
	// ascending. Conflict checks run against this snapshot.
	ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)

	// DeleteExpired removes bookings whose window closed before the given
	// instant. Explicit administrative sweep, never run automatically.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
