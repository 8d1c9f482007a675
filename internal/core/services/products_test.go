package services

import (
	"context"
	"testing"

	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProductService() (*ProductService, *memProductRepo, *memSaleRepo) {
	products := newMemProductRepo()
	sales := newMemSaleRepo()
	return NewProductService(testLogger(), products, sales), products, sales
}

func TestProductService_CreateAndGet(t *testing.T) {
	svc, _, _ := newTestProductService()
	ctx := context.Background()

	p, err := svc.Create(ctx, domain.CreateProduct{Name: "  Widget ", Description: "A widget", Price: 9.99, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.NotZero(t, p.ID)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, 5, got.Quantity)
}

func TestProductService_DuplicateName(t *testing.T) {
	svc, _, _ := newTestProductService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateProduct{Name: "Widget", Description: "d", Price: 1, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateProduct{Name: "Widget", Description: "d", Price: 2, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrDuplicateProductName)

	// A deleted product frees its name
	other, err := svc.Create(ctx, domain.CreateProduct{Name: "Gadget", Description: "d", Price: 1, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, other.ID))
	_, err = svc.Create(ctx, domain.CreateProduct{Name: "Gadget", Description: "d", Price: 1, Quantity: 1})
	assert.NoError(t, err)
}

func TestProductService_PartialUpdate(t *testing.T) {
	svc, _, _ := newTestProductService()
	ctx := context.Background()

	p, err := svc.Create(ctx, domain.CreateProduct{Name: "Widget", Description: "old", Price: 1, Quantity: 1})
	require.NoError(t, err)

	newPrice := 3.5
	updated, err := svc.Update(ctx, p.ID, domain.UpdateProduct{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 3.5, updated.Price)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, "old", updated.Description)
}

func TestProductService_SoftDelete(t *testing.T) {
	svc, _, _ := newTestProductService()
	ctx := context.Background()

	p, err := svc.Create(ctx, domain.CreateProduct{Name: "Widget", Description: "d", Price: 1, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	// Deleting twice reports not found, same as any read of a deleted row
	err = svc.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	list, total, err := svc.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func TestProductService_Revenue(t *testing.T) {
	svc, products, sales := newTestProductService()
	ctx := context.Background()

	p := domain.Product{Name: "Widget", Price: 10}
	require.NoError(t, products.CreateProduct(ctx, &p))
	require.NoError(t, sales.CreateSale(ctx, &domain.Sale{ProductID: p.ID, Quantity: 3, SalePrice: 10}))
	require.NoError(t, sales.CreateSale(ctx, &domain.Sale{ProductID: p.ID, Quantity: 2, SalePrice: 8}))

	rev, err := svc.RevenueByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 46.0, rev, 0.001)

	total, err := svc.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 46.0, total, 0.001)

	_, err = svc.RevenueByProduct(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductService_ListSummaries(t *testing.T) {
	svc, products, sales := newTestProductService()
	ctx := context.Background()

	a := domain.Product{Name: "A", Price: 5, Quantity: 10}
	b := domain.Product{Name: "B", Price: 2, Quantity: 4}
	require.NoError(t, products.CreateProduct(ctx, &a))
	require.NoError(t, products.CreateProduct(ctx, &b))
	require.NoError(t, sales.CreateSale(ctx, &domain.Sale{ProductID: a.ID, Quantity: 2, SalePrice: 5}))

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.InDelta(t, 10.0, summaries[0].Revenue, 0.001)
	assert.InDelta(t, 0.0, summaries[1].Revenue, 0.001)
}
