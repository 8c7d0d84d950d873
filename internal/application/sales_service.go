package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pos-platform/sales-service/internal/domain"
	"github.com/pos-platform/sales-service/pkg/logging"
	"github.com/pos-platform/sales-service/pkg/metrics"
)

// SalesService coordinates the three sale-affecting operations as single
// atomic units. Each invocation runs a bounded protocol: read everything,
// validate, stage writes for stock, the sale document, the pending order,
// and the audit entry, then commit. The transaction runner re-runs the
// whole protocol on optimistic conflicts; the service holds no state
// across retries, so a retried attempt re-reads fresh stock and cannot
// double-apply deltas.
type SalesService struct {
	txn           txnRunner
	transactions  transactionRepository
	pendingOrders pendingOrderRepository
	ledger        *StockLedger
	audit         *AuditWriter
	logger        *logging.Logger
	metrics       *metrics.Metrics
	isTransient   func(error) bool
	now           func() time.Time
}

// NewSalesService creates the sale coordinator. isTransient classifies
// errors surfaced by the transaction runner as exhausted optimistic
// conflicts; pass nil when the runner never surfaces them.
func NewSalesService(
	txn txnRunner,
	transactions transactionRepository,
	pendingOrders pendingOrderRepository,
	ledger *StockLedger,
	audit *AuditWriter,
	logger *logging.Logger,
	m *metrics.Metrics,
	isTransient func(error) bool,
) *SalesService {
	if isTransient == nil {
		isTransient = func(error) bool { return false }
	}
	return &SalesService{
		txn:           txn,
		transactions:  transactions,
		pendingOrders: pendingOrders,
		ledger:        ledger,
		audit:         audit,
		logger:        logger.WithComponent("sales"),
		metrics:       m,
		isTransient:   isTransient,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateSale commits a new sale, consuming stock for every line item.
func (s *SalesService) CreateSale(ctx context.Context, input SaleInput, actorID string) (*domain.SaleTransaction, error) {
	now := s.now()
	sale := input.toTransaction(uuid.NewString(), now)

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		deltas := domain.StockDeltas(nil, sale.ItemQuantities())
		adjustments, err := s.ledger.PlanAdjustments(ctx, deltas)
		if err != nil {
			return err
		}

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityTransaction, sale.ID, domain.ActionCreate, actorID, nil, sale.Fields())
		if err != nil {
			return err
		}

		if err := s.ledger.Apply(ctx, adjustments, now); err != nil {
			return err
		}
		if err := s.transactions.Insert(ctx, &sale); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		if sale.Pending {
			order := domain.NewPendingOrder(sale, now)
			if err := s.pendingOrders.Upsert(ctx, &order); err != nil {
				return fmt.Errorf("failed to stage pending order: %w", err)
			}
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return nil, s.classify(ctx, "create_sale", err)
	}

	s.metrics.RecordSaleCommitted("create")
	s.metrics.RecordAuditEntry(string(domain.ActivityEntityTransaction), string(domain.ActionCreate))
	s.logger.WithContext(ctx).Info("sale created",
		"transactionId", sale.ID,
		"items", len(sale.Items),
		"pending", sale.Pending,
	)
	return &sale, nil
}

// UpdateSale replaces a sale's body and reconciles stock with the net
// quantity difference per product. Products whose quantity did not change
// are neither read nor written.
func (s *SalesService) UpdateSale(ctx context.Context, transactionID string, input SaleInput, actorID string) (*domain.SaleTransaction, error) {
	now := s.now()
	var updated domain.SaleTransaction

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.transactions.FindByID(ctx, transactionID)
		if err != nil {
			return fmt.Errorf("failed to read transaction: %w", err)
		}
		if existing == nil {
			return &domain.TransactionNotFoundError{TransactionID: transactionID}
		}

		updated = input.toTransaction(transactionID, now)
		updated.CreatedAt = existing.CreatedAt

		deltas := domain.StockDeltas(existing.ItemQuantities(), updated.ItemQuantities())
		adjustments, err := s.ledger.PlanAdjustments(ctx, deltas)
		if err != nil {
			return err
		}

		// A sale flagged not-pending leaves any prior pending order
		// untouched, so its read is only needed on the pending path.
		var priorOrder *domain.PendingOrder
		if updated.Pending {
			priorOrder, err = s.pendingOrders.FindByID(ctx, transactionID)
			if err != nil {
				return fmt.Errorf("failed to read pending order: %w", err)
			}
		}

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityTransaction, transactionID, domain.ActionUpdate, actorID, existing.Fields(), updated.Fields())
		if err != nil {
			return err
		}

		if err := s.ledger.Apply(ctx, adjustments, now); err != nil {
			return err
		}
		if err := s.transactions.Replace(ctx, &updated); err != nil {
			return fmt.Errorf("failed to replace transaction: %w", err)
		}
		if updated.Pending {
			order := domain.ProjectPendingOrder(priorOrder, updated, actorID, now)
			if err := s.pendingOrders.Upsert(ctx, &order); err != nil {
				return fmt.Errorf("failed to stage pending order: %w", err)
			}
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return nil, s.classify(ctx, "update_sale", err)
	}

	s.metrics.RecordSaleCommitted("update")
	s.metrics.RecordAuditEntry(string(domain.ActivityEntityTransaction), string(domain.ActionUpdate))
	s.logger.WithContext(ctx).Info("sale updated", "transactionId", transactionID)
	return &updated, nil
}

// DeleteSale removes a sale, restores the stock it consumed, and drops
// its pending order if one exists.
func (s *SalesService) DeleteSale(ctx context.Context, transactionID string, actorID string) error {
	now := s.now()

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.transactions.FindByID(ctx, transactionID)
		if err != nil {
			return fmt.Errorf("failed to read transaction: %w", err)
		}
		if existing == nil {
			return &domain.TransactionNotFoundError{TransactionID: transactionID}
		}

		deltas := domain.StockDeltas(existing.ItemQuantities(), nil)
		adjustments, err := s.ledger.PlanAdjustments(ctx, deltas)
		if err != nil {
			// A committed sale referencing a missing product means the
			// product was hard-removed behind the ledger's back.
			var notFound *domain.ProductNotFoundError
			if errors.As(err, &notFound) {
				return &domain.DataIntegrityError{
					Message: fmt.Sprintf("sale %s references missing product %s", transactionID, notFound.ProductID),
					Err:     err,
				}
			}
			return err
		}

		entry, err := s.audit.PrepareEntry(ctx, domain.ActivityEntityTransaction, transactionID, domain.ActionDelete, actorID, existing.Fields(), nil)
		if err != nil {
			return err
		}

		if err := s.ledger.Apply(ctx, adjustments, now); err != nil {
			return err
		}
		if err := s.pendingOrders.Delete(ctx, transactionID); err != nil {
			return fmt.Errorf("failed to delete pending order: %w", err)
		}
		if err := s.transactions.Delete(ctx, transactionID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return s.audit.Stage(ctx, entry)
	})
	if err != nil {
		return s.classify(ctx, "delete_sale", err)
	}

	s.metrics.RecordSaleCommitted("delete")
	s.metrics.RecordAuditEntry(string(domain.ActivityEntityTransaction), string(domain.ActionDelete))
	s.logger.WithContext(ctx).Info("sale deleted", "transactionId", transactionID)
	return nil
}

// GetSale returns a sale by ID.
func (s *SalesService) GetSale(ctx context.Context, transactionID string) (*domain.SaleTransaction, error) {
	sale, err := s.transactions.FindByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction: %w", err)
	}
	if sale == nil {
		return nil, &domain.TransactionNotFoundError{TransactionID: transactionID}
	}
	return sale, nil
}

// ListSales returns the sales whose date falls in [from, to).
func (s *SalesService) ListSales(ctx context.Context, from, to time.Time) ([]*domain.SaleTransaction, error) {
	sales, err := s.transactions.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return sales, nil
}

// classify maps transaction outcomes onto the error taxonomy. Integrity
// faults are logged loudly since they indicate prior data corruption;
// exhausted optimistic conflicts become RetryExhaustedError.
func (s *SalesService) classify(ctx context.Context, operation string, err error) error {
	var integrity *domain.DataIntegrityError
	if errors.As(err, &integrity) {
		s.logger.WithContext(ctx).Error("data integrity fault",
			"operation", operation,
			"error", err.Error(),
		)
		return err
	}

	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		s.metrics.RecordStockRejection(operation)
		return err
	}

	if s.isTransient(err) {
		s.metrics.RecordRetryExhausted(operation)
		s.logger.WithContext(ctx).Warn("transaction retries exhausted",
			"operation", operation,
			"error", err.Error(),
		)
		return &domain.RetryExhaustedError{Operation: operation, Err: err}
	}

	return err
}
