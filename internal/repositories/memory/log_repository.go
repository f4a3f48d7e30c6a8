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

type LogRepository struct {
	mu      sync.RWMutex
	entries map[primitive.ObjectID]*models.LogEntry
}

func NewLogRepository() interfaces.LogRepository {
	return &LogRepository{entries: make(map[primitive.ObjectID]*models.LogEntry)}
}

func (r *LogRepository) Append(ctx context.Context, entry *models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.DamageSnapshot == nil {
		entry.DamageSnapshot = []models.DamageRecord{}
	}
	r.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (r *LogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("log entry not found")
	}
	return cloneEntry(entry), nil
}

func (r *LogRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("log entry not found")
	}

	for field, value := range updates {
		switch field {
		case "odometer_km":
			if n, ok := value.(int); ok {
				entry.OdometerKm = n
			}
		case "fuel_level":
			entry.FuelLevel = asString(value)
		case "notes":
			entry.Notes = asString(value)
		case "new_damage":
			entry.NewDamage = asString(value)
		case "checklist":
			if c, ok := value.(map[string]bool); ok {
				entry.Checklist = cloneChecklist(c)
			}
		case "signature_key":
			entry.SignatureKey = asString(value)
		case "revised_at":
			if t, ok := value.(time.Time); ok {
				revised := t
				entry.RevisedAt = &revised
			}
		}
	}
	return nil
}

func (r *LogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("log entry not found")
	}
	delete(r.entries, id)
	return nil
}

func (r *LogRepository) DeleteByTripID(ctx context.Context, tripID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, entry := range r.entries {
		if entry.TripID == tripID {
			delete(r.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *LogRepository) List(ctx context.Context) ([]*models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*models.LogEntry) bool { return true }, false), nil
}

func (r *LogRepository) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(e *models.LogEntry) bool { return e.VehicleID == vehicleID }, false), nil
}

func (r *LogRepository) ListByTripID(ctx context.Context, tripID string) ([]*models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(e *models.LogEntry) bool { return e.TripID == tripID }, true), nil
}

func (r *LogRepository) GetLatestForVehicle(ctx context.Context, vehicleID primitive.ObjectID) (*models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.collect(func(e *models.LogEntry) bool { return e.VehicleID == vehicleID }, false)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no log entries for vehicle")
	}
	return entries[0], nil
}

// collect filters and sorts under the caller's lock. Ascending order is used
// for trip listings, descending everywhere else.
func (r *LogRepository) collect(match func(*models.LogEntry) bool, ascending bool) []*models.LogEntry {
	entries := []*models.LogEntry{}
	for _, e := range r.entries {
		if match(e) {
			entries = append(entries, cloneEntry(e))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries
}

func cloneEntry(e *models.LogEntry) *models.LogEntry {
	clone := *e
	clone.Checklist = cloneChecklist(e.Checklist)
	clone.DamageSnapshot = append([]models.DamageRecord{}, e.DamageSnapshot...)
	clone.DamagePhotos = append([]string{}, e.DamagePhotos...)
	clone.SignalPhotos = append([]string{}, e.SignalPhotos...)
	if e.ExpectedReturn != nil {
		ret := *e.ExpectedReturn
		clone.ExpectedReturn = &ret
	}
	if e.RevisedAt != nil {
		revised := *e.RevisedAt
		clone.RevisedAt = &revised
	}
	return &clone
}

func cloneChecklist(c map[string]bool) map[string]bool {
	if c == nil {
		return nil
	}
	clone := make(map[string]bool, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}
