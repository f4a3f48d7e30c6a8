package mongodb

import (
	"context"
	"fmt"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"
	"flottapool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type logRepository struct {
	collection *mongo.Collection
}

func NewLogRepository(db *mongo.Database) interfaces.LogRepository {
	return &logRepository{
		collection: db.Collection(utils.CollectionLogs),
	}
}

func (r *logRepository) Append(ctx context.Context, entry *models.LogEntry) error {
	entry.ID = primitive.NewObjectID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.DamageSnapshot == nil {
		entry.DamageSnapshot = []models.DamageRecord{}
	}

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	return nil
}

func (r *logRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.LogEntry, error) {
	var entry models.LogEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("log entry not found")
		}
		return nil, fmt.Errorf("failed to get log entry: %w", err)
	}

	return &entry, nil
}

func (r *logRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update log entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("log entry not found")
	}

	return nil
}

func (r *logRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete log entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("log entry not found")
	}

	return nil
}

func (r *logRepository) DeleteByTripID(ctx context.Context, tripID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"trip_id": tripID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete trip %s: %w", tripID, err)
	}

	return result.DeletedCount, nil
}

func (r *logRepository) List(ctx context.Context) ([]*models.LogEntry, error) {
	return r.findEntries(ctx, bson.M{}, -1)
}

func (r *logRepository) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.LogEntry, error) {
	return r.findEntries(ctx, bson.M{"vehicle_id": vehicleID}, -1)
}

func (r *logRepository) ListByTripID(ctx context.Context, tripID string) ([]*models.LogEntry, error) {
	return r.findEntries(ctx, bson.M{"trip_id": tripID}, 1)
}

func (r *logRepository) GetLatestForVehicle(ctx context.Context, vehicleID primitive.ObjectID) (*models.LogEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var entry models.LogEntry
	err := r.collection.FindOne(ctx, bson.M{"vehicle_id": vehicleID}, opts).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no log entries for vehicle")
		}
		return nil, fmt.Errorf("failed to get latest log entry: %w", err)
	}

	return &entry, nil
}

func (r *logRepository) findEntries(ctx context.Context, filter bson.M, order int) ([]*models.LogEntry, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: order}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find log entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.LogEntry
	for cursor.Next(ctx) {
		var entry models.LogEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
