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

// SaleRepository persists sale transactions.
type SaleRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

func NewSaleRepository(client *mongodb.Client, m *metrics.Metrics) *SaleRepository {
	return &SaleRepository{
		collection: client.Collection(CollectionTransactions),
		metrics:    m,
	}
}

// EnsureIndexes creates the indexes the repository queries against.
func (r *SaleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}
	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*domain.SaleTransaction, error) {
	start := time.Now()
	var txn domain.SaleTransaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&txn)
	observe(r.metrics, CollectionTransactions, "findOne", start, err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return &txn, nil
}

func (r *SaleRepository) Insert(ctx context.Context, txn *domain.SaleTransaction) error {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, txn)
	observe(r.metrics, CollectionTransactions, "insertOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *SaleRepository) Replace(ctx context.Context, txn *domain.SaleTransaction) error {
	start := time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": txn.ID}, txn)
	observe(r.metrics, CollectionTransactions, "replaceOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to replace transaction: %w", err)
	}
	return nil
}

func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	observe(r.metrics, CollectionTransactions, "deleteOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (r *SaleRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.SaleTransaction, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx,
		bson.M{"date": bson.M{"$gte": from, "$lt": to}},
		options.Find().SetSort(mongodb.SortDescending("date")),
	)
	observe(r.metrics, CollectionTransactions, "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []*domain.SaleTransaction
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txns, nil
}
