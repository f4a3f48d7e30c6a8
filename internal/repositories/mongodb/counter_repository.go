package mongodb

import (
	"context"
	"fmt"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"
	"flottapool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type counterRepository struct {
	collection *mongo.Collection
}

func NewCounterRepository(db *mongo.Database) interfaces.CounterRepository {
	return &counterRepository{
		collection: db.Collection(utils.CollectionCounters),
	}
}

// NextValue atomically increments the named counter and returns the new
// value. FindOneAndUpdate with $inc executes as a single document operation,
// so concurrent callers each observe a distinct value; the upsert seeds a
// missing counter at zero before the increment.
func (r *counterRepository) NextValue(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"count": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}

	return counter.Count, nil
}
