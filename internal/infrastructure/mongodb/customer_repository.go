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

// CustomerRepository persists customers.
type CustomerRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

func NewCustomerRepository(client *mongodb.Client, m *metrics.Metrics) *CustomerRepository {
	return &CustomerRepository{
		collection: client.Collection(CollectionCustomers),
		metrics:    m,
	}
}

// EnsureIndexes creates the indexes the repository queries against.
func (r *CustomerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "customerName", Value: 1}, {Key: "deleted", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create customer indexes: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	start := time.Now()
	var customer domain.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	observe(r.metrics, CollectionCustomers, "findOne", start, err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepository) FindActiveByName(ctx context.Context, name string) (*domain.Customer, error) {
	start := time.Now()
	var customer domain.Customer
	err := r.collection.FindOne(ctx, bson.M{"customerName": name, "deleted": false}).Decode(&customer)
	observe(r.metrics, CollectionCustomers, "findOne", start, err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by name: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepository) List(ctx context.Context, includeDeleted bool) ([]*domain.Customer, error) {
	filter := bson.M{}
	if !includeDeleted {
		filter["deleted"] = false
	}

	start := time.Now()
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(mongodb.SortAscending("customerName")))
	observe(r.metrics, CollectionCustomers, "find", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer cursor.Close(ctx)

	var customers []*domain.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, customer *domain.Customer) error {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, customer)
	observe(r.metrics, CollectionCustomers, "insertOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	start := time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": customer.ID}, customer)
	observe(r.metrics, CollectionCustomers, "replaceOne", start, err)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}
