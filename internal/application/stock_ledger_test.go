package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos-platform/sales-service/internal/domain"
)

func TestPlanAdjustments_ComputesNewStock(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)
	env.seedProduct("p2", "Tea", 4)

	adjustments, err := env.ledger.PlanAdjustments(context.Background(), map[string]int64{
		"p1": 3,
		"p2": -2,
	})

	require.NoError(t, err)
	assert.Equal(t, []StockAdjustment{
		{ProductID: "p1", NewStock: 7},
		{ProductID: "p2", NewStock: 6},
	}, adjustments)
}

func TestPlanAdjustments_VisitsProductsInSortedOrder(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("b", "B", 1)
	env.seedProduct("a", "A", 1)
	env.seedProduct("c", "C", 1)

	adjustments, err := env.ledger.PlanAdjustments(context.Background(), map[string]int64{
		"c": 1, "a": 1, "b": 1,
	})

	require.NoError(t, err)
	ids := make([]string, 0, len(adjustments))
	for _, adj := range adjustments {
		ids = append(ids, adj.ProductID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestPlanAdjustments_MissingProduct(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)

	_, err := env.ledger.PlanAdjustments(context.Background(), map[string]int64{
		"p1":    1,
		"ghost": 1,
	})

	var notFound *domain.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.ProductID)
}

func TestPlanAdjustments_NegativeResultRejected(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 2)

	_, err := env.ledger.PlanAdjustments(context.Background(), map[string]int64{"p1": 3})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Available)
	assert.Equal(t, int64(3), insufficient.Requested)
}

func TestPlanAdjustments_RestockCannotGoNegative(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 0)

	adjustments, err := env.ledger.PlanAdjustments(context.Background(), map[string]int64{"p1": -5})

	require.NoError(t, err)
	assert.Equal(t, int64(5), adjustments[0].NewStock)
}

func TestApply_WritesPlannedStockAndTimestamp(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := env.ledger.Apply(context.Background(), []StockAdjustment{{ProductID: "p1", NewStock: 7}}, now)

	require.NoError(t, err)
	assert.Equal(t, int64(7), env.store.products["p1"].Stock)
	assert.Equal(t, now, env.store.products["p1"].UpdatedAt)
}
