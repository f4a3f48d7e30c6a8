package interfaces

import (
	"context"

	"flottapool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing and dashboard queries
	List(ctx context.Context) ([]*models.Vehicle, error)
	GetByStatus(ctx context.Context, status models.VehicleStatus) ([]*models.Vehicle, error)
	CountByStatus(ctx context.Context, status models.VehicleStatus) (int64, error)
	GetTotalCount(ctx context.Context) (int64, error)
}
