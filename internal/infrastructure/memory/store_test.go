package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *Store, id, sku string, stock int64) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID:           id,
		Name:         "Producto " + id,
		SKU:          sku,
		Unit:         "pcs",
		SellingPrice: decimal.NewFromInt(100),
		CurrentStock: decimal.NewFromInt(stock),
		ReorderLevel: decimal.NewFromInt(5),
		IsActive:     true,
	}))
}

func TestStore_RunCommitsOnSuccess(t *testing.T) {
	s := New()
	seedProduct(t, s, "p-1", "SKU-1", 10)
	ctx := context.Background()

	err := s.Run(ctx, func(pr repository.ProductRepository, _ repository.SaleRepository,
		_ repository.StockAdjustmentRepository, _ repository.StockCountRepository) error {
		return pr.UpdateStock(ctx, "p-1", decimal.NewFromInt(7))
	})
	require.NoError(t, err)

	p, err := s.Products().GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(7)))
}

func TestStore_RunDiscardsOnError(t *testing.T) {
	s := New()
	seedProduct(t, s, "p-1", "SKU-1", 10)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(pr repository.ProductRepository, _ repository.SaleRepository,
		ar repository.StockAdjustmentRepository, _ repository.StockCountRepository) error {
		require.NoError(t, ar.Create(ctx, &entity.StockAdjustment{ID: "a-1", ProductID: "p-1", Type: entity.AdjustmentAdd}))
		require.NoError(t, pr.UpdateStock(ctx, "p-1", decimal.NewFromInt(99)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, "p-1")
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(10)))
	items, total, err := s.Adjustments().List(ctx, repository.AdjustmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestStore_RunCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.ProductRepository, repository.SaleRepository,
		repository.StockAdjustmentRepository, repository.StockCountRepository) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProductRepo_UpdateKeepsStock(t *testing.T) {
	s := New()
	seedProduct(t, s, "p-1", "SKU-1", 10)
	ctx := context.Background()

	p, _ := s.Products().GetByID(ctx, "p-1")
	p.Name = "Renombrado"
	p.CurrentStock = decimal.NewFromInt(1000)
	require.NoError(t, s.Products().Update(ctx, p))

	got, _ := s.Products().GetByID(ctx, "p-1")
	assert.Equal(t, "Renombrado", got.Name)
	assert.True(t, got.CurrentStock.Equal(decimal.NewFromInt(10)))
}

func TestProductRepo_Uniqueness(t *testing.T) {
	s := New()
	seedProduct(t, s, "p-1", "SKU-1", 1)

	err := s.Products().Create(context.Background(), &entity.Product{ID: "p-2", SKU: "sku-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_ListFilters(t *testing.T) {
	s := New()
	seedProduct(t, s, "p-1", "SKU-1", 20)
	seedProduct(t, s, "p-2", "SKU-2", 3)
	seedProduct(t, s, "p-3", "SKU-3", 0)
	ctx := context.Background()

	// Caso 1: stock bajo incluye agotados
	low, total, err := s.Products().List(ctx, repository.ProductFilter{Stock: repository.StockLow})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, low, 2)

	// Caso 2: agotados
	out, _, _ := s.Products().List(ctx, repository.ProductFilter{Stock: repository.StockOut})
	require.Len(t, out, 1)
	assert.Equal(t, "p-3", out[0].ID)

	// Caso 3: búsqueda por SKU y paginación
	found, total, _ := s.Products().List(ctx, repository.ProductFilter{Query: "sku-2"})
	assert.Equal(t, 1, total)
	assert.Equal(t, "p-2", found[0].ID)

	paged, total, _ := s.Products().List(ctx, repository.ProductFilter{Limit: 2, Offset: 2})
	assert.Equal(t, 3, total)
	assert.Len(t, paged, 1)
}

func TestProductRepo_DeleteReferenced(t *testing.T) {
	s := New()
	seedProduct(t, s, "p-1", "SKU-1", 10)
	ctx := context.Background()
	require.NoError(t, s.Counts().Create(ctx, &entity.StockCount{ID: "c-1", ProductID: "p-1", CountDate: time.Now()}))

	assert.ErrorIs(t, s.Products().Delete(ctx, "p-1"), domain.ErrConflict)
	assert.ErrorIs(t, s.Products().Delete(ctx, "missing"), domain.ErrProductNotFound)
}

func TestCategoryRepo_DeleteInUse(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Categories().Create(ctx, &entity.Category{ID: "c-1", Name: "Miraa"}))
	assert.ErrorIs(t, s.Categories().Create(ctx, &entity.Category{ID: "c-2", Name: "miraa"}), domain.ErrDuplicate)

	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p-1", SKU: "K1", CategoryID: "c-1"}))
	c, err := s.Categories().GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.ProductCount)
	assert.ErrorIs(t, s.Categories().Delete(ctx, "c-1"), domain.ErrConflict)
}

func TestSaleRepo_SummaryAndProductSales(t *testing.T) {
	s := New()
	seedProduct(t, s, "p-1", "SKU-1", 10)
	ctx := context.Background()
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	for i, method := range []entity.PaymentMethod{entity.PaymentCash, entity.PaymentCash, entity.PaymentMobileMoney} {
		require.NoError(t, s.Sales().Create(ctx, &entity.Sale{
			ID:            string(rune('a' + i)),
			SaleNumber:    "SALE-" + string(rune('a'+i)),
			PaymentMethod: method,
			Total:         decimal.NewFromInt(200),
			CreatedAt:     day.Add(time.Duration(i) * time.Hour),
			Items: []entity.SaleItem{{
				ProductID: "p-1", Quantity: decimal.NewFromInt(2), Subtotal: decimal.NewFromInt(200),
			}},
		}))
	}

	sum, err := s.Sales().Summary(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.SalesCount)
	assert.True(t, sum.TotalSales.Equal(decimal.NewFromInt(600)))
	assert.True(t, sum.ByMethod[entity.PaymentCash].Equal(decimal.NewFromInt(400)))

	// [day, day+1h) excluye la segunda y tercera venta
	ps, err := s.Sales().ProductSales(ctx, day, day.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.True(t, ps[0].Units.Equal(decimal.NewFromInt(2)))

	n, err := s.Sales().CountByProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.ErrorIs(t, s.Sales().Create(ctx, &entity.Sale{ID: "z", SaleNumber: "SALE-a"}), domain.ErrDuplicate)
}
