package application

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pos-platform/sales-service/internal/domain"
	"github.com/pos-platform/sales-service/pkg/logging"
	"github.com/pos-platform/sales-service/pkg/metrics"
)

// memStore is the shared in-memory backing for the fake repositories.
// Locking is done by fakeTxnRunner around each whole transaction, which
// serializes transactions exactly like commit-time conflict resolution
// would under full contention.
type memStore struct {
	mu            sync.Mutex
	products      map[string]domain.Product
	transactions  map[string]domain.SaleTransaction
	pendingOrders map[string]domain.PendingOrder
	customers     map[string]domain.Customer
	activities    []domain.ActivityLogEntry
	users         map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		products:      make(map[string]domain.Product),
		transactions:  make(map[string]domain.SaleTransaction),
		pendingOrders: make(map[string]domain.PendingOrder),
		customers:     make(map[string]domain.Customer),
		users:         map[string]string{"actor-1": "Alice", "actor-2": "Bob"},
	}
}

type memSnapshot struct {
	products      map[string]domain.Product
	transactions  map[string]domain.SaleTransaction
	pendingOrders map[string]domain.PendingOrder
	customers     map[string]domain.Customer
	activities    []domain.ActivityLogEntry
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		products:      copyMap(s.products),
		transactions:  copyMap(s.transactions),
		pendingOrders: copyMap(s.pendingOrders),
		customers:     copyMap(s.customers),
		activities:    append([]domain.ActivityLogEntry(nil), s.activities...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.transactions = snap.transactions
	s.pendingOrders = snap.pendingOrders
	s.customers = snap.customers
	s.activities = snap.activities
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// fakeTxnRunner serializes transactions over the store and rolls the
// store back when fn fails, mirroring all-or-nothing commit semantics.
// retryAttempts > 0 simulates optimistic conflicts: the effects of a
// successful fn are discarded and fn is re-run, like the driver does.
type fakeTxnRunner struct {
	store         *memStore
	retryAttempts int
}

func (r *fakeTxnRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for {
		snap := r.store.snapshot()
		if err := fn(ctx); err != nil {
			r.store.restore(snap)
			return err
		}
		if r.retryAttempts > 0 {
			r.retryAttempts--
			r.store.restore(snap)
			continue
		}
		return nil
	}
}

// failingTxnRunner surfaces a fixed error without running fn, standing in
// for a runner whose retry budget is exhausted.
type failingTxnRunner struct {
	err error
}

func (r *failingTxnRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.err
}

type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProductRepo) FindActiveByName(ctx context.Context, name string) (*domain.Product, error) {
	for _, p := range r.store.products {
		if p.Name == name && !p.Deleted {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(ctx context.Context, includeDeleted bool) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.store.products {
		if p.Deleted && !includeDeleted {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) Insert(ctx context.Context, product *domain.Product) error {
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *domain.Product) error {
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) UpdateStock(ctx context.Context, id string, stock int64, updatedAt time.Time) error {
	p := r.store.products[id]
	p.Stock = stock
	p.UpdatedAt = updatedAt
	r.store.products[id] = p
	return nil
}

type fakeTransactionRepo struct {
	store *memStore
}

func (r *fakeTransactionRepo) FindByID(ctx context.Context, id string) (*domain.SaleTransaction, error) {
	t, ok := r.store.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeTransactionRepo) Insert(ctx context.Context, txn *domain.SaleTransaction) error {
	r.store.transactions[txn.ID] = *txn
	return nil
}

func (r *fakeTransactionRepo) Replace(ctx context.Context, txn *domain.SaleTransaction) error {
	r.store.transactions[txn.ID] = *txn
	return nil
}

func (r *fakeTransactionRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.transactions, id)
	return nil
}

func (r *fakeTransactionRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.SaleTransaction, error) {
	var out []*domain.SaleTransaction
	for _, t := range r.store.transactions {
		if !t.Date.Before(from) && t.Date.Before(to) {
			cp := t
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePendingOrderRepo struct {
	store *memStore
}

func (r *fakePendingOrderRepo) FindByID(ctx context.Context, id string) (*domain.PendingOrder, error) {
	o, ok := r.store.pendingOrders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *fakePendingOrderRepo) Upsert(ctx context.Context, order *domain.PendingOrder) error {
	r.store.pendingOrders[order.ID] = *order
	return nil
}

// SetStatus and AddCheckedBy mirror the store's single-field atomic
// updates: they read and write in one step, never replacing the rest of
// the document.
func (r *fakePendingOrderRepo) SetStatus(ctx context.Context, id string, status string) (bool, error) {
	o, ok := r.store.pendingOrders[id]
	if !ok {
		return false, nil
	}
	o.Status = status
	r.store.pendingOrders[id] = o
	return true, nil
}

func (r *fakePendingOrderRepo) AddCheckedBy(ctx context.Context, id string, actorID string) (bool, error) {
	o, ok := r.store.pendingOrders[id]
	if !ok {
		return false, nil
	}
	o.CheckedBy = append([]string(nil), o.CheckedBy...)
	o.Acknowledge(actorID)
	r.store.pendingOrders[id] = o
	return true, nil
}

func (r *fakePendingOrderRepo) Delete(ctx context.Context, id string) error {
	delete(r.store.pendingOrders, id)
	return nil
}

func (r *fakePendingOrderRepo) List(ctx context.Context) ([]*domain.PendingOrder, error) {
	var out []*domain.PendingOrder
	for _, o := range r.store.pendingOrders {
		cp := o
		out = append(out, &cp)
	}
	return out, nil
}

type fakeActivityRepo struct {
	store *memStore
}

func (r *fakeActivityRepo) Insert(ctx context.Context, entry *domain.ActivityLogEntry) error {
	r.store.activities = append(r.store.activities, *entry)
	return nil
}

func (r *fakeActivityRepo) List(ctx context.Context, limit int64) ([]*domain.ActivityLogEntry, error) {
	var out []*domain.ActivityLogEntry
	for i := len(r.store.activities) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		cp := r.store.activities[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeActivityRepo) DeleteBatchOlderThan(ctx context.Context, cutoff time.Time, batchSize int64) (int64, error) {
	var kept []domain.ActivityLogEntry
	var removed int64
	for _, e := range r.store.activities {
		if e.Date.Before(cutoff) && removed < batchSize {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.store.activities = kept
	return removed, nil
}

type fakeCustomerRepo struct {
	store *memStore
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	c, ok := r.store.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCustomerRepo) FindActiveByName(ctx context.Context, name string) (*domain.Customer, error) {
	for _, c := range r.store.customers {
		if c.Name == name && !c.Deleted {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, includeDeleted bool) ([]*domain.Customer, error) {
	var out []*domain.Customer
	for _, c := range r.store.customers {
		if c.Deleted && !includeDeleted {
			continue
		}
		cp := c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCustomerRepo) Insert(ctx context.Context, customer *domain.Customer) error {
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	r.store.customers[customer.ID] = *customer
	return nil
}

type fakeActorDirectory struct {
	store *memStore
}

func (d *fakeActorDirectory) GetDisplayName(ctx context.Context, actorID string) (string, error) {
	name, ok := d.store.users[actorID]
	if !ok {
		return "", &domain.ActorNotFoundError{ActorID: actorID}
	}
	return name, nil
}

func newTestLogger() *logging.Logger {
	return logging.New(&logging.Config{
		Level:       logging.LevelError,
		ServiceName: "test",
		Output:      io.Discard,
	})
}

// testEnv wires one fake store into every service under test.
type testEnv struct {
	store         *memStore
	runner        *fakeTxnRunner
	products      *fakeProductRepo
	transactions  *fakeTransactionRepo
	pendingOrders *fakePendingOrderRepo
	activities    *fakeActivityRepo
	customers     *fakeCustomerRepo
	ledger        *StockLedger
	audit         *AuditWriter
	sales         *SalesService
	productSvc    *ProductService
	customerSvc   *CustomerService
	pendingSvc    *PendingOrderService
	activitySvc   *ActivityService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	runner := &fakeTxnRunner{store: store}

	products := &fakeProductRepo{store: store}
	transactions := &fakeTransactionRepo{store: store}
	pendingOrders := &fakePendingOrderRepo{store: store}
	activities := &fakeActivityRepo{store: store}
	customers := &fakeCustomerRepo{store: store}
	actors := &fakeActorDirectory{store: store}

	logger := newTestLogger()
	m := metrics.New(metrics.DefaultConfig("test"))

	ledger := NewStockLedger(products)
	audit := NewAuditWriter(actors, activities)

	return &testEnv{
		store:         store,
		runner:        runner,
		products:      products,
		transactions:  transactions,
		pendingOrders: pendingOrders,
		activities:    activities,
		customers:     customers,
		ledger:        ledger,
		audit:         audit,
		sales:         NewSalesService(runner, transactions, pendingOrders, ledger, audit, logger, m, nil),
		productSvc:    NewProductService(runner, products, ledger, audit, logger, m),
		customerSvc:   NewCustomerService(runner, customers, audit, logger, m),
		pendingSvc:    NewPendingOrderService(pendingOrders, logger),
		activitySvc:   NewActivityService(activities, logger, m),
	}
}

func (e *testEnv) seedProduct(id, name string, stock int64) {
	e.store.products[id] = domain.Product{
		ID:        id,
		Name:      name,
		CostPrice: 5,
		SellPrice: 10,
		Stock:     stock,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}
