// Package memory provides in-memory implementations of the repository
// interfaces for tests. Update semantics mirror the mongodb package: a nil
// value in an update map clears the field.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func NewVehicleRepository() interfaces.VehicleRepository {
	return &VehicleRepository{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle.Plate = strings.ToUpper(vehicle.Plate)
	for _, v := range r.vehicles {
		if v.Plate == vehicle.Plate {
			return fmt.Errorf("vehicle with plate %s already exists", vehicle.Plate)
		}
	}

	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if vehicle.CreatedAt.IsZero() {
		vehicle.CreatedAt = now
	}
	vehicle.UpdatedAt = now

	r.vehicles[vehicle.ID] = cloneVehicle(vehicle)
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle not found")
	}
	return cloneVehicle(vehicle), nil
}

func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plate = strings.ToUpper(plate)
	for _, v := range r.vehicles {
		if v.Plate == plate {
			return cloneVehicle(v), nil
		}
	}
	return nil, fmt.Errorf("vehicle not found with plate %s", plate)
}

func (r *VehicleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return fmt.Errorf("vehicle not found")
	}

	for field, value := range updates {
		applyVehicleUpdate(vehicle, field, value)
	}
	vehicle.UpdatedAt = time.Now()
	return nil
}

func applyVehicleUpdate(v *models.Vehicle, field string, value interface{}) {
	switch field {
	case "model":
		v.Model = asString(value)
	case "plate":
		v.Plate = asString(value)
	case "odometer_km":
		if n, ok := value.(int); ok {
			v.OdometerKm = n
		}
	case "fuel_level":
		v.FuelLevel = asString(value)
	case "status":
		if s, ok := value.(models.VehicleStatus); ok {
			v.Status = s
		}
	case "maintenance_kind":
		if value == nil {
			v.MaintenanceKind = ""
		} else if k, ok := value.(models.MaintenanceKind); ok {
			v.MaintenanceKind = k
		}
	case "driver":
		v.Driver = asString(value)
	case "commessa":
		v.Commessa = asString(value)
	case "current_trip_id":
		v.CurrentTripID = asString(value)
	case "bound_booking_id":
		if value == nil {
			v.BoundBookingID = nil
		} else if id, ok := value.(primitive.ObjectID); ok {
			bound := id
			v.BoundBookingID = &bound
		}
	case "expected_return":
		if value == nil {
			v.ExpectedReturn = nil
		} else if t, ok := value.(time.Time); ok {
			ret := t
			v.ExpectedReturn = &ret
		}
	case "damages":
		if d, ok := value.([]models.DamageRecord); ok {
			v.Damages = append([]models.DamageRecord{}, d...)
		}
	case "damage_photo_keys":
		if keys, ok := value.([]string); ok {
			v.DamagePhotoKeys = append([]string{}, keys...)
		}
	case "missing_checklist":
		if items, ok := value.([]string); ok {
			v.MissingChecklist = append([]string{}, items...)
		}
	}
}

func asString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func (r *VehicleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[id]; !ok {
		return fmt.Errorf("vehicle not found")
	}
	delete(r.vehicles, id)
	return nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicles := make([]*models.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		vehicles = append(vehicles, cloneVehicle(v))
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].Model < vehicles[j].Model
	})
	return vehicles, nil
}

func (r *VehicleRepository) GetByStatus(ctx context.Context, status models.VehicleStatus) ([]*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicles := []*models.Vehicle{}
	for _, v := range r.vehicles {
		if v.Status == status {
			vehicles = append(vehicles, cloneVehicle(v))
		}
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].Model < vehicles[j].Model
	})
	return vehicles, nil
}

func (r *VehicleRepository) CountByStatus(ctx context.Context, status models.VehicleStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, v := range r.vehicles {
		if v.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *VehicleRepository) GetTotalCount(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.vehicles)), nil
}

func cloneVehicle(v *models.Vehicle) *models.Vehicle {
	clone := *v
	clone.Damages = append([]models.DamageRecord{}, v.Damages...)
	clone.DamagePhotoKeys = append([]string{}, v.DamagePhotoKeys...)
	clone.MissingChecklist = append([]string{}, v.MissingChecklist...)
	if v.BoundBookingID != nil {
		bound := *v.BoundBookingID
		clone.BoundBookingID = &bound
	}
	if v.ExpectedReturn != nil {
		ret := *v.ExpectedReturn
		clone.ExpectedReturn = &ret
	}
	return &clone
}
