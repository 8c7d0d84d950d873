package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pos-platform/sales-service/internal/domain"
)

// StockLedger validates and stages stock adjustments inside an enclosing
// transaction. It is the only component that writes product stock.
type StockLedger struct {
	products productRepository
}

func NewStockLedger(products productRepository) *StockLedger {
	return &StockLedger{products: products}
}

// StockAdjustment is one staged stock write produced by PlanAdjustments.
type StockAdjustment struct {
	ProductID string
	NewStock  int64
}

// PlanAdjustments reads every product named in deltas and validates the
// resulting stock levels. deltas holds the net quantity to subtract per
// product: positive consumes stock, negative restocks. Every read is
// issued before any write is staged because the transaction model forbids
// reads after the first write. Products are visited in sorted ID order so
// concurrent transactions touching the same set read in the same order.
//
// Validation is all-or-nothing: a single missing product or negative
// result fails the whole plan and nothing is staged.
func (l *StockLedger) PlanAdjustments(ctx context.Context, deltas map[string]int64) ([]StockAdjustment, error) {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	adjustments := make([]StockAdjustment, 0, len(ids))
	for _, id := range ids {
		product, err := l.products.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to read product %s: %w", id, err)
		}
		if product == nil {
			return nil, &domain.ProductNotFoundError{ProductID: id}
		}

		newStock := product.Stock - deltas[id]
		if newStock < 0 {
			return nil, &domain.InsufficientStockError{
				ProductID: id,
				Available: product.Stock,
				Requested: deltas[id],
			}
		}

		adjustments = append(adjustments, StockAdjustment{ProductID: id, NewStock: newStock})
	}

	return adjustments, nil
}

// Apply stages the planned stock writes through the caller's transaction
// context. Callers must run PlanAdjustments first; Apply performs no
// validation of its own.
func (l *StockLedger) Apply(ctx context.Context, adjustments []StockAdjustment, now time.Time) error {
	for _, adj := range adjustments {
		if err := l.products.UpdateStock(ctx, adj.ProductID, adj.NewStock, now); err != nil {
			return fmt.Errorf("failed to update stock for product %s: %w", adj.ProductID, err)
		}
	}
	return nil
}
