package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pos-platform/sales-service/internal/domain"
	"github.com/pos-platform/sales-service/pkg/metrics"
	"github.com/pos-platform/sales-service/pkg/mongodb"
)

// ActivityRepository persists the append-only audit trail.
type ActivityRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

func NewActivityRepository(client *mongodb.Client, m *metrics.Metrics) *ActivityRepository {
	return &ActivityRepository{
		collection: client.Collection(CollectionActivities),
		metrics:    m,
	}
}

// EnsureIndexes creates the date index used by listing and the retention
// sweep.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}
	return nil
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *domain.ActivityLogEntry) error {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	observe(r.metrics, CollectionActivities, "insertOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, limit int64) ([]*domain.ActivityLogEntry, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(mongodb.SortDescending("date")).SetLimit(limit),
	)
	observe(r.metrics, CollectionActivities, "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.ActivityLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return entries, nil
}

// DeleteBatchOlderThan removes up to batchSize entries dated before
// cutoff and reports how many it removed. The retention sweep calls it
// repeatedly until it comes back short.
func (r *ActivityRepository) DeleteBatchOlderThan(ctx context.Context, cutoff time.Time, batchSize int64) (int64, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx,
		bson.M{"date": bson.M{"$lt": cutoff}},
		options.Find().SetSort(mongodb.SortAscending("date")).SetLimit(batchSize).SetProjection(bson.M{"_id": 1}),
	)
	observe(r.metrics, CollectionActivities, "find", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired activities: %w", err)
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return 0, fmt.Errorf("failed to decode expired activities: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	start = time.Now()
	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	observe(r.metrics, CollectionActivities, "deleteMany", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired activities: %w", err)
	}
	return result.DeletedCount, nil
}
