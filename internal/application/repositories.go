package application

import (
	"context"
	"time"

	"github.com/pos-platform/sales-service/internal/domain"
)

// txnRunner executes fn inside one atomic multi-document transaction. All
// reads through the transaction context observe one consistent snapshot
// and all writes commit together or not at all. The runner re-runs fn on
// optimistic conflicts up to its retry budget.
type txnRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories return nil, nil when the requested document does not exist.

type productRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindActiveByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	UpdateStock(ctx context.Context, id string, stock int64, updatedAt time.Time) error
}

type transactionRepository interface {
	FindByID(ctx context.Context, id string) (*domain.SaleTransaction, error)
	Insert(ctx context.Context, txn *domain.SaleTransaction) error
	Replace(ctx context.Context, txn *domain.SaleTransaction) error
	Delete(ctx context.Context, id string) error
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.SaleTransaction, error)
}

// pendingOrderRepository's SetStatus and AddCheckedBy are single-field
// atomic updates so board operations can run outside a transaction
// without clobbering a concurrent sale update's full-document write.
// Both report whether the order existed.
type pendingOrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.PendingOrder, error)
	Upsert(ctx context.Context, order *domain.PendingOrder) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.PendingOrder, error)
	SetStatus(ctx context.Context, id string, status string) (bool, error)
	AddCheckedBy(ctx context.Context, id string, actorID string) (bool, error)
}

type activityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityLogEntry) error
	List(ctx context.Context, limit int64) ([]*domain.ActivityLogEntry, error)
	DeleteBatchOlderThan(ctx context.Context, cutoff time.Time, batchSize int64) (int64, error)
}

type customerRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	FindActiveByName(ctx context.Context, name string) (*domain.Customer, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Customer, error)
	Insert(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
}

// actorDirectory resolves acting users for the audit trail. It fails with
// domain.ActorNotFoundError when the account is unknown.
type actorDirectory interface {
	GetDisplayName(ctx context.Context, actorID string) (string, error)
}
