package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos-platform/sales-service/internal/domain"
)

func TestCreateProduct(t *testing.T) {
	env := newTestEnv()

	product, err := env.productSvc.CreateProduct(context.Background(), ProductInput{
		Name:      "Coffee",
		CostPrice: 5,
		SellPrice: 10,
		Stock:     20,
	}, "actor-1")

	require.NoError(t, err)
	assert.Equal(t, int64(20), env.store.products[product.ID].Stock)

	require.Len(t, env.store.activities, 1)
	assert.Equal(t, domain.ActivityEntityProduct, env.store.activities[0].Entity)
	assert.Equal(t, domain.ActionCreate, env.store.activities[0].Action)
}

func TestCreateProduct_DuplicateNameConflict(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)

	_, err := env.productSvc.CreateProduct(context.Background(), ProductInput{Name: "Coffee"}, "actor-1")

	var dup *domain.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Coffee", dup.Name)
	assert.Empty(t, env.store.activities)
}

func TestCreateProduct_SoftDeletedNameIsReusable(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)
	old := env.store.products["p1"]
	old.Deleted = true
	env.store.products["p1"] = old

	_, err := env.productSvc.CreateProduct(context.Background(), ProductInput{Name: "Coffee"}, "actor-1")

	assert.NoError(t, err)
}

func TestUpdateProduct_StockChangeGoesThroughLedger(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)

	updated, err := env.productSvc.UpdateProduct(context.Background(), "p1", ProductInput{
		Name:      "Coffee",
		CostPrice: 5,
		SellPrice: 10,
		Stock:     15,
	}, "actor-1")

	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.Stock)
	assert.Equal(t, int64(15), env.store.products["p1"].Stock)

	require.Len(t, env.store.activities, 1)
	change, ok := env.store.activities[0].Changes.Get("stock")
	require.True(t, ok)
	assert.Equal(t, int64(10), change.Before)
	assert.Equal(t, int64(15), change.After)
}

func TestUpdateProduct_NegativeStockRejected(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)

	_, err := env.productSvc.UpdateProduct(context.Background(), "p1", ProductInput{
		Name:  "Coffee",
		Stock: -3,
	}, "actor-1")

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(10), env.store.products["p1"].Stock)
}

func TestUpdateProduct_RenameToTakenNameConflicts(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)
	env.seedProduct("p2", "Tea", 5)

	_, err := env.productSvc.UpdateProduct(context.Background(), "p2", ProductInput{
		Name:  "Coffee",
		Stock: 5,
	}, "actor-1")

	var dup *domain.DuplicateNameError
	assert.ErrorAs(t, err, &dup)
}

func TestDeleteProduct_SoftDeletes(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("p1", "Coffee", 10)

	err := env.productSvc.DeleteProduct(context.Background(), "p1", "actor-1")

	require.NoError(t, err)
	assert.True(t, env.store.products["p1"].Deleted)

	require.Len(t, env.store.activities, 1)
	assert.Equal(t, domain.ActionDelete, env.store.activities[0].Action)

	listed, err := env.productSvc.ListProducts(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.productSvc.GetProduct(context.Background(), "missing")

	var notFound *domain.ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
