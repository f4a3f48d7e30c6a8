package interfaces

import (
	"context"

	"flottapool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LogRepository interface {
	Append(ctx context.Context, entry *models.LogEntry) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.LogEntry, error)

	// Update exists only for the explicit revise-log-entry operation; ordinary
	// flows never mutate past entries.
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByTripID(ctx context.Context, tripID string) (int64, error)

	// List returns entries sorted by timestamp descending.
	List(ctx context.Context) ([]*models.LogEntry, error)
	ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.LogEntry, error)
	ListByTripID(ctx context.Context, tripID string) ([]*models.LogEntry, error)
	GetLatestForVehicle(ctx context.Context, vehicleID primitive.ObjectID) (*models.LogEntry, error)
}
