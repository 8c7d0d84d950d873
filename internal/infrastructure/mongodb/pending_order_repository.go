package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pos-platform/sales-service/internal/domain"
	"github.com/pos-platform/sales-service/pkg/metrics"
	"github.com/pos-platform/sales-service/pkg/mongodb"
)

// PendingOrderRepository persists held orders. A pending order shares its
// _id with the sale it shadows.
type PendingOrderRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

func NewPendingOrderRepository(client *mongodb.Client, m *metrics.Metrics) *PendingOrderRepository {
	return &PendingOrderRepository{
		collection: client.Collection(CollectionPendingOrders),
		metrics:    m,
	}
}

func (r *PendingOrderRepository) FindByID(ctx context.Context, id string) (*domain.PendingOrder, error) {
	start := time.Now()
	var order domain.PendingOrder
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	observe(r.metrics, CollectionPendingOrders, "findOne", start, err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending order: %w", err)
	}
	return &order, nil
}

func (r *PendingOrderRepository) Upsert(ctx context.Context, order *domain.PendingOrder) error {
	start := time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order, options.Replace().SetUpsert(true))
	observe(r.metrics, CollectionPendingOrders, "replaceOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert pending order: %w", err)
	}
	return nil
}

// SetStatus writes only the status field. A full-document replace here
// could resurrect a stale embedded sale snapshot when a status change
// races a sale update. Reports whether the order exists.
func (r *PendingOrderRepository) SetStatus(ctx context.Context, id string, status string) (bool, error) {
	start := time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}})
	observe(r.metrics, CollectionPendingOrders, "updateOne", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to set pending order status: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// AddCheckedBy unions an actor into checkedBy server-side. $addToSet is
// atomic and idempotent: concurrent acknowledgements never lose each
// other and a repeat acknowledgement writes nothing.
func (r *PendingOrderRepository) AddCheckedBy(ctx context.Context, id string, actorID string) (bool, error) {
	start := time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"checkedBy": actorID}})
	observe(r.metrics, CollectionPendingOrders, "updateOne", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to acknowledge pending order: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// Delete removes a pending order. Deleting an absent order is not an
// error: most sales never had one.
func (r *PendingOrderRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	observe(r.metrics, CollectionPendingOrders, "deleteOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete pending order: %w", err)
	}
	return nil
}

func (r *PendingOrderRepository) List(ctx context.Context) ([]*domain.PendingOrder, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(mongodb.SortAscending("createdAt")))
	observe(r.metrics, CollectionPendingOrders, "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.PendingOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode pending orders: %w", err)
	}
	return orders, nil
}
