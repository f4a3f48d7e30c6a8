package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"
	"flottapool/internal/utils"
	"flottapool/internal/validators"
	"flottapool/pkg/logger"
	"flottapool/pkg/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovementPhotos are the storage keys minted for one recorded movement.
type MovementPhotos struct {
	DamageKeys   []string
	SignalKeys   []string
	SignatureKey string
}

// LogService is the trip recorder: it persists the immutable movement log,
// stores photographic evidence and serves the log in both flat and
// trip-grouped form.
type LogService interface {
	RecordMovement(ctx context.Context, entry *models.LogEntry) error

	// UploadMovementPhotos decodes and stores the submitted photos and
	// signature. Storage failures are logged and skipped so a movement is
	// never blocked by the photo store.
	UploadMovementPhotos(ctx context.Context, plate, tripID string, movement models.MovementType, damagePhotos, signalPhotos []string, signature string) *MovementPhotos

	GetEntry(ctx context.Context, id primitive.ObjectID) (*models.LogEntry, error)
	ListEntries(ctx context.Context) ([]*models.LogEntry, error)
	ListEntriesByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.LogEntry, error)
	ListTrips(ctx context.Context) ([]*models.Trip, error)
	ListTripsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Trip, error)

	// ReviseEntry amends a past entry under a fresh signature. When the
	// revised entry is the vehicle's most recent one, the vehicle's odometer,
	// fuel level and matching damage-ledger description are reconciled.
	ReviseEntry(ctx context.Context, id primitive.ObjectID, req *validators.LogReviseRequest) (*models.LogEntry, error)

	// DeleteEntry and DeleteTrip are destructive administrative operations:
	// no cascade, no vehicle-state reconciliation.
	DeleteEntry(ctx context.Context, id primitive.ObjectID) error
	DeleteTrip(ctx context.Context, tripID string) (int64, error)

	DeletePhotos(ctx context.Context, keys []string)
	PhotoURL(ctx context.Context, key string) (string, error)
}

type logService struct {
	logs     interfaces.LogRepository
	vehicles interfaces.VehicleRepository
	storage  storage.StorageProvider
	notifier ChangeNotifier
	logger   *logger.Logger
}

func NewLogService(
	logs interfaces.LogRepository,
	vehicles interfaces.VehicleRepository,
	storageProvider storage.StorageProvider,
	notifier ChangeNotifier,
	log *logger.Logger,
) LogService {
	return &logService{
		logs:     logs,
		vehicles: vehicles,
		storage:  storageProvider,
		notifier: notifier,
		logger:   log,
	}
}

func (s *logService) RecordMovement(ctx context.Context, entry *models.LogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record movement: %w", err)
	}

	s.logger.LogMovement(entry.TripID, string(entry.Movement), entry.Plate, entry.Driver)

	if s.notifier != nil {
		s.notifier.LogAppended(entry)
	}
	return nil
}

func (s *logService) UploadMovementPhotos(ctx context.Context, plate, tripID string, movement models.MovementType, damagePhotos, signalPhotos []string, signature string) *MovementPhotos {
	photos := &MovementPhotos{}

	for _, dataURL := range damagePhotos {
		if key := s.uploadPhoto(ctx, plate, tripID, movement, "damage", dataURL); key != "" {
			photos.DamageKeys = append(photos.DamageKeys, key)
		}
	}
	for _, dataURL := range signalPhotos {
		if key := s.uploadPhoto(ctx, plate, tripID, movement, "signal", dataURL); key != "" {
			photos.SignalKeys = append(photos.SignalKeys, key)
		}
	}
	if signature != "" {
		photos.SignatureKey = s.uploadPhoto(ctx, plate, tripID, movement, "signature", signature)
	}

	return photos
}

func (s *logService) uploadPhoto(ctx context.Context, plate, tripID string, movement models.MovementType, kind, dataURL string) string {
	if s.storage == nil {
		return ""
	}

	decoded, err := utils.DecodeDataURL(dataURL)
	if err != nil {
		s.logger.WithTripID(tripID).WithError(err).Warnf("Skipping unreadable %s photo", kind)
		return ""
	}

	key := fmt.Sprintf("vehicles/%s/trips/%s/%s-%s-%s%s",
		sanitizePlateForKey(plate), tripID, movement, kind, uuid.New().String()[:8], decoded.Extension)

	_, err = s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(decoded.Data),
		ContentType: decoded.ContentType,
		Size:        int64(len(decoded.Data)),
		Metadata: map[string]string{
			"trip_id":  tripID,
			"movement": string(movement),
			"kind":     kind,
		},
	})
	if err != nil {
		s.logger.WithTripID(tripID).WithError(err).Errorf("Failed to store %s photo", kind)
		return ""
	}

	return key
}

func sanitizePlateForKey(plate string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(plate)), " ", "-")
}

func (s *logService) GetEntry(ctx context.Context, id primitive.ObjectID) (*models.LogEntry, error) {
	return s.logs.GetByID(ctx, id)
}

func (s *logService) ListEntries(ctx context.Context) ([]*models.LogEntry, error) {
	return s.logs.List(ctx)
}

func (s *logService) ListEntriesByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.LogEntry, error) {
	return s.logs.ListByVehicle(ctx, vehicleID)
}

func (s *logService) ListTrips(ctx context.Context) ([]*models.Trip, error) {
	entries, err := s.logs.List(ctx)
	if err != nil {
		return nil, err
	}
	return groupTrips(entries), nil
}

func (s *logService) ListTripsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Trip, error) {
	entries, err := s.logs.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return groupTrips(entries), nil
}

// groupTrips pairs checkout and checkin entries by trip id. Input is sorted
// newest-first, so trips come out newest-first too; entries within a trip are
// reordered chronologically.
func groupTrips(entries []*models.LogEntry) []*models.Trip {
	byID := make(map[string]*models.Trip)
	trips := []*models.Trip{}

	for _, entry := range entries {
		trip, ok := byID[entry.TripID]
		if !ok {
			trip = &models.Trip{TripID: entry.TripID, Open: true}
			byID[entry.TripID] = trip
			trips = append(trips, trip)
		}
		trip.Entries = append(trip.Entries, entry)
		if entry.Movement == models.MovementCheckin {
			trip.Open = false
		}
	}

	for _, trip := range trips {
		sort.SliceStable(trip.Entries, func(i, j int) bool {
			return trip.Entries[i].Timestamp.Before(trip.Entries[j].Timestamp)
		})
	}
	return trips
}

func (s *logService) ReviseEntry(ctx context.Context, id primitive.ObjectID, req *validators.LogReviseRequest) (*models.LogEntry, error) {
	if errs := validators.ValidateLogRevise(req); len(errs) > 0 {
		return nil, errs
	}

	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"odometer_km": req.OdometerKm,
		"fuel_level":  req.FuelLevel,
		"notes":       req.Notes,
		"new_damage":  req.NewDamage,
		"checklist":   req.Checklist,
		"revised_at":  now,
	}

	// The fresh signature attests to the revised figures and supersedes the
	// stored one. If the upload fails the original signature is kept.
	if key := s.uploadPhoto(ctx, entry.Plate, entry.TripID, entry.Movement, "signature", req.Signature); key != "" {
		updates["signature_key"] = key
	}

	if err := s.logs.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to revise log entry: %w", err)
	}

	entry.OdometerKm = req.OdometerKm
	entry.FuelLevel = req.FuelLevel
	entry.Notes = req.Notes
	previousDamage := entry.NewDamage
	entry.NewDamage = req.NewDamage
	entry.Checklist = req.Checklist
	entry.RevisedAt = &now
	if key, ok := updates["signature_key"].(string); ok {
		if entry.SignatureKey != "" {
			s.DeletePhotos(ctx, []string{entry.SignatureKey})
		}
		entry.SignatureKey = key
	}

	if err := s.reconcileVehicle(ctx, entry, previousDamage); err != nil {
		s.logger.WithTripID(entry.TripID).WithError(err).Error("Failed to reconcile vehicle after log revision")
	}

	s.logger.WithTripID(entry.TripID).WithField("entry_id", id.Hex()).Info("Log entry revised")
	return entry, nil
}

// reconcileVehicle pushes a revised entry's figures back onto the vehicle,
// but only when the entry is the vehicle's most recent one; older entries
// have been superseded and revising them must not rewind live state.
func (s *logService) reconcileVehicle(ctx context.Context, entry *models.LogEntry, previousDamage string) error {
	latest, err := s.logs.GetLatestForVehicle(ctx, entry.VehicleID)
	if err != nil || latest == nil || latest.ID != entry.ID {
		return err
	}

	vehicle, err := s.vehicles.GetByID(ctx, entry.VehicleID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"odometer_km": entry.OdometerKm,
		"fuel_level":  entry.FuelLevel,
	}

	if entry.NewDamage != previousDamage {
		damages := make([]models.DamageRecord, len(vehicle.Damages))
		copy(damages, vehicle.Damages)
		matched := false
		for i := range damages {
			if damages[i].TripID == entry.TripID && damages[i].Description == previousDamage {
				damages[i].Description = entry.NewDamage
				matched = true
			}
		}
		// A revision that introduces damage where the movement declared none
		// has no record to rename; the ledger gains one for that trip.
		if !matched && entry.NewDamage != "" {
			damages = append(damages, models.DamageRecord{
				TripID:      entry.TripID,
				Description: entry.NewDamage,
			})
		}
		updates["damages"] = damages
	}

	if err := s.vehicles.Update(ctx, vehicle.ID, updates); err != nil {
		return err
	}

	if s.notifier != nil {
		if updated, err := s.vehicles.GetByID(ctx, vehicle.ID); err == nil {
			s.notifier.VehicleUpdated(updated)
		}
	}
	return nil
}

func (s *logService) DeleteEntry(ctx context.Context, id primitive.ObjectID) error {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.logs.Delete(ctx, id); err != nil {
		return err
	}

	keys := append(append([]string{}, entry.DamagePhotos...), entry.SignalPhotos...)
	if entry.SignatureKey != "" {
		keys = append(keys, entry.SignatureKey)
	}
	s.DeletePhotos(ctx, keys)

	s.logger.WithTripID(entry.TripID).WithField("entry_id", id.Hex()).Warn("Log entry deleted")
	return nil
}

func (s *logService) DeleteTrip(ctx context.Context, tripID string) (int64, error) {
	entries, err := s.logs.ListByTripID(ctx, tripID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.logs.DeleteByTripID(ctx, tripID)
	if err != nil {
		return 0, err
	}

	keys := []string{}
	for _, entry := range entries {
		keys = append(keys, entry.DamagePhotos...)
		keys = append(keys, entry.SignalPhotos...)
		if entry.SignatureKey != "" {
			keys = append(keys, entry.SignatureKey)
		}
	}
	s.DeletePhotos(ctx, keys)

	s.logger.WithTripID(tripID).WithField("entries", deleted).Warn("Trip deleted from log")
	return deleted, nil
}

func (s *logService) DeletePhotos(ctx context.Context, keys []string) {
	if s.storage == nil {
		return
	}
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to delete stored photo")
		}
	}
}

func (s *logService) PhotoURL(ctx context.Context, key string) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("photo storage is not configured")
	}
	return s.storage.GetURL(ctx, key, 15*time.Minute)
}
