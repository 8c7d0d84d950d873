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

// ProductRepository persists products in the products collection.
type ProductRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

func NewProductRepository(client *mongodb.Client, m *metrics.Metrics) *ProductRepository {
	return &ProductRepository{
		collection: client.Collection(CollectionProducts),
		metrics:    m,
	}
}

// EnsureIndexes creates the indexes the repository queries against.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "productName", Value: 1}, {Key: "deleted", Value: 1}}},
		{Keys: bson.D{{Key: "deleted", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	start := time.Now()
	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	observe(r.metrics, CollectionProducts, "findOne", start, err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) FindActiveByName(ctx context.Context, name string) (*domain.Product, error) {
	start := time.Now()
	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"productName": name, "deleted": false}).Decode(&product)
	observe(r.metrics, CollectionProducts, "findOne", start, err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, includeDeleted bool) ([]*domain.Product, error) {
	filter := bson.M{}
	if !includeDeleted {
		filter["deleted"] = false
	}

	start := time.Now()
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(mongodb.SortAscending("productName")))
	observe(r.metrics, CollectionProducts, "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Insert(ctx context.Context, product *domain.Product) error {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, product)
	observe(r.metrics, CollectionProducts, "insertOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	start := time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	observe(r.metrics, CollectionProducts, "replaceOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *ProductRepository) UpdateStock(ctx context.Context, id string, stock int64, updatedAt time.Time) error {
	start := time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"stock": stock, "updatedAt": updatedAt},
	})
	observe(r.metrics, CollectionProducts, "updateOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return nil
}
