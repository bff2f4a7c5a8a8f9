package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nandwere/stock-pos/internal/application/dto"
	appinventory "github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/internal/application/usecase"
	"github.com/nandwere/stock-pos/internal/domain"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/nandwere/stock-pos/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

type env struct {
	store    *memory.Store
	products *usecase.ProductUseCase
	sales    *usecase.SaleUseCase
	stock    *usecase.StockUseCase
	reports  *usecase.ReportUseCase
	users    *usecase.UserUseCase
}

func newEnv() *env {
	store := memory.New()
	ledger := appinventory.NewLedgerUseCase(store, nil, appinventory.LedgerConfig{}, nil)
	replenishment := appinventory.NewReplenishmentUseCase(store.Products(), store.Sales(), appinventory.ReplenishmentConfig{
		LeadTimeDays: 3, SafetyStockDays: 7, LookbackDays: 30,
	})
	return &env{
		store:    store,
		products: usecase.NewProductUseCase(store.Products(), store.Sales(), nil),
		sales:    usecase.NewSaleUseCase(ledger, store.Sales(), nil, nil),
		stock:    usecase.NewStockUseCase(ledger, store.Products(), store.Sales(), store.Adjustments(), store.Counts()),
		reports:  usecase.NewReportUseCase(store.Products(), store.Sales(), store.Counts(), replenishment, nil),
		users:    usecase.NewUserUseCase(store.Users()),
	}
}

func (e *env) product(t *testing.T, sku, stock, cost, price, reorder string) *dto.ProductResponse {
	t.Helper()
	p, err := e.products.Create(context.Background(), dto.CreateProductRequest{
		Name:         "Producto " + sku,
		SKU:          sku,
		Unit:         "Kg",
		CostPrice:    d(cost),
		SellingPrice: d(price),
		CurrentStock: d(stock),
		ReorderLevel: d(reorder),
	})
	require.NoError(t, err)
	return p
}

func (e *env) sell(t *testing.T, productID, qty string) *dto.SaleResponse {
	t.Helper()
	s, err := e.sales.Create(context.Background(), "u-1", "", dto.CreateSaleRequest{
		PaymentMethod: "CASH",
		Items:         []dto.SaleItemRequest{{ProductID: productID, Quantity: d(qty)}},
	})
	require.NoError(t, err)
	return s
}

func TestProductUseCase_Lifecycle(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	// Caso 1: alta con stock de apertura
	p := e.product(t, "KDE-111", "60", "170", "200", "2")
	assertDec(t, "60", p.CurrentStock)
	assert.Equal(t, "Kg", p.Unit)
	assert.True(t, p.IsActive)
	assert.Empty(t, p.Warnings)

	// Caso 2: precio bajo costo se advierte y el stock no cambia
	price := d("150")
	updated, err := e.products.Update(ctx, p.ID, dto.UpdateProductRequest{SellingPrice: &price})
	require.NoError(t, err)
	assertDec(t, "60", updated.CurrentStock)
	assert.NotEmpty(t, updated.Warnings)

	// Caso 3: SKU repetido
	_, err = e.products.Create(ctx, dto.CreateProductRequest{Name: "Otro", SKU: "kde-111"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	// Caso 4: precios negativos
	_, err = e.products.Create(ctx, dto.CreateProductRequest{Name: "X", SKU: "X-1", CostPrice: d("-1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// Caso 5: con ventas no se puede borrar
	e.sell(t, p.ID, "1")
	err = e.products.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	stock, err := e.products.GetStock(ctx, p.ID)
	require.NoError(t, err)
	assertDec(t, "59", stock.CurrentStock)
	assert.False(t, stock.Cached)

	_, err = e.products.GetByID(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestProductUseCase_ProfitMargin(t *testing.T) {
	e := newEnv()
	p := e.product(t, "KDE-111", "60", "170", "200", "2")

	m, err := e.products.ProfitMargin(context.Background(), p.ID)
	require.NoError(t, err)
	assertDec(t, "30", m.Profit)
	assertDec(t, "15", m.MarginPct)
	assertDec(t, "17.65", m.MarkupPct)
}

// mapCache StockCache en memoria.
type mapCache struct {
	values map[string]decimal.Decimal
}

func (c *mapCache) Get(_ context.Context, id string) (decimal.Decimal, bool) {
	v, ok := c.values[id]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, id string, qty decimal.Decimal) {
	c.values[id] = qty
}

func (c *mapCache) Invalidate(_ context.Context, ids ...string) {
	for _, id := range ids {
		delete(c.values, id)
	}
}

func TestProductUseCase_DeleteInvalidatesStockCache(t *testing.T) {
	store := memory.New()
	sc := &mapCache{values: map[string]decimal.Decimal{}}
	products := usecase.NewProductUseCase(store.Products(), store.Sales(), sc)
	ctx := context.Background()

	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Arroz", SKU: "ARZ-1", CurrentStock: d("7")})
	require.NoError(t, err)

	// Caso 1: la primera lectura llena la caché y la segunda la usa
	stock, err := products.GetStock(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stock.Cached)
	stock, err = products.GetStock(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stock.Cached)

	// Caso 2: tras el borrado el producto ya no existe ni en caché
	require.NoError(t, products.Delete(ctx, p.ID))
	_, err = products.GetStock(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
	assert.Empty(t, sc.values)
}

func TestProductUseCase_DecimalScale(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	// Caso 1: precios con más de 2 decimales
	_, err := e.products.Create(ctx, dto.CreateProductRequest{Name: "X", SKU: "X-1", SellingPrice: d("1.999")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// Caso 2: stock con más de 3 decimales
	_, err = e.products.Create(ctx, dto.CreateProductRequest{Name: "X", SKU: "X-1", CurrentStock: d("0.0005")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// Caso 3: en el límite de escala se acepta
	p := e.product(t, "X-1", "1.125", "0.99", "1.99", "0.5")
	assertDec(t, "1.125", p.CurrentStock)

	cost := d("0.995")
	_, err = e.products.Update(ctx, p.ID, dto.UpdateProductRequest{CostPrice: &cost})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestStockUseCase_DailyFlow(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p := e.product(t, "KDE-111", "20", "170", "200", "2")
	e.sell(t, p.ID, "5")
	today := time.Now()

	// Caso 1: hoja de conteo
	sheet, err := e.stock.CountSheet(ctx, today)
	require.NoError(t, err)
	require.Len(t, sheet, 1)
	assertDec(t, "20", sheet[0].OpeningStock)
	assertDec(t, "5", sheet[0].RecordedSales)
	assertDec(t, "15", sheet[0].ExpectedStock)

	// Caso 2: el conteo encuentra 3 unidades menos
	counts, err := e.stock.SubmitCount(ctx, "u-1", dto.StockCountRequest{
		Counts: []dto.StockCountEntryRequest{{ProductID: p.ID, ExpectedStock: d("15"), ActualStock: d("12")}},
	})
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assertDec(t, "-3", counts[0].Variance)

	variances, err := e.stock.Variances(ctx, today)
	require.NoError(t, err)
	require.Len(t, variances, 1)
	assertDec(t, "3", variances[0].UnrecordedUnits)
	assertDec(t, "600", variances[0].EstimatedRevenue)

	// Caso 3: resumen de ventas no registradas
	summary, err := e.stock.UnrecordedSales(ctx, today)
	require.NoError(t, err)
	assertDec(t, "1000", summary.RecordedSales)
	assert.Equal(t, 1, summary.RecordedSalesCount)
	assertDec(t, "600", summary.UnrecordedRevenue)
	assert.Equal(t, 1, summary.EstimatedUnrecordedSalesCount)
	assertDec(t, "1600", summary.TotalEstimatedRevenue)

	listed, err := e.stock.ListCounts(ctx, "", nil, nil)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	stock, err := e.products.GetStock(ctx, p.ID)
	require.NoError(t, err)
	assertDec(t, "12", stock.CurrentStock)
}

func TestStockUseCase_Adjustments(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p := e.product(t, "KDE-111", "10", "170", "200", "2")

	adj, err := e.stock.CreateAdjustment(ctx, "u-1", dto.CreateAdjustmentRequest{
		ProductID: p.ID, Type: "DAMAGE", Quantity: d("4"), Reason: "bolsa rota",
	})
	require.NoError(t, err)
	assertDec(t, "10", adj.PreviousStock)
	assertDec(t, "6", adj.NewStock)

	_, err = e.stock.CreateAdjustment(ctx, "u-1", dto.CreateAdjustmentRequest{
		ProductID: p.ID, Type: "THEFT", Quantity: d("7"), Reason: "faltante",
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	list, err := e.stock.ListAdjustments(ctx, repository.AdjustmentFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 50, list.Pagination.Limit)
	assert.Equal(t, 1, list.Pagination.TotalPages)
}

func TestReportUseCase(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	a := e.product(t, "A-1", "10", "10", "20", "2")
	e.product(t, "B-1", "0", "5", "8", "1")
	e.sell(t, a.ID, "9")

	// Caso 1: ventas
	sales, err := e.reports.Sales(ctx, nil, nil)
	require.NoError(t, err)
	assertDec(t, "180", sales.TotalSales)
	assertDec(t, "180", sales.CashSales)
	assert.Equal(t, 1, sales.SalesCount)
	assert.True(t, sales.CardSales.IsZero())

	// Caso 2: inventario (A queda con 1 unidad)
	inv, err := e.reports.Inventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.ProductCount)
	assertDec(t, "10", inv.CostValue)
	assertDec(t, "20", inv.RetailValue)
	assert.Equal(t, 2, inv.LowStockCount)
	assert.Equal(t, 1, inv.OutOfStockCount)

	// Caso 3: reposición. A vendió 9 en 30 días: ceil(0.3 × 10) = 3
	reorder, err := e.reports.Reorder(ctx)
	require.NoError(t, err)
	require.Len(t, reorder.Items, 2)
	assert.Equal(t, a.ID, reorder.Items[0].ProductID)
	assertDec(t, "3", reorder.Items[0].SuggestedOrderQty)
	assert.Equal(t, 1, reorder.Items[0].Priority)
	assertDec(t, "1", reorder.Items[1].SuggestedOrderQty)
}

func TestSaleUseCase_ListAndDelete(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p := e.product(t, "A-1", "10", "10", "20", "2")
	s := e.sell(t, p.ID, "2")
	assert.Regexp(t, `^SALE-\d{6}-\d{6}$`, s.SaleNumber)
	require.Len(t, s.StockLevels, 1)
	assertDec(t, "8", s.StockLevels[0].CurrentStock)

	list, err := e.sales.List(ctx, repository.SaleFilter{Query: s.SaleNumber})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Meta.Total)

	// El borrado no repone stock
	require.NoError(t, e.sales.Delete(ctx, s.ID))
	_, err = e.sales.GetByID(ctx, s.ID)
	assert.True(t, errors.Is(err, domain.ErrSaleNotFound))
	stock, err := e.products.GetStock(ctx, p.ID)
	require.NoError(t, err)
	assertDec(t, "8", stock.CurrentStock)
}

func TestUserUseCase(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	u, err := e.users.Create(ctx, dto.CreateUserRequest{Email: "Ana@Shop.local", Password: "secret1", Name: "Ana", Role: "CASHIER"})
	require.NoError(t, err)
	assert.Equal(t, "ana@shop.local", u.Email)
	assert.Contains(t, u.Permissions, "sales.create")
	assert.NotContains(t, u.Permissions, "stock.adjust")

	_, err = e.users.Create(ctx, dto.CreateUserRequest{Email: "ana@shop.local", Password: "secret1", Name: "Ana 2", Role: "CASHIER"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))

	role := "MANAGER"
	updated, err := e.users.Update(ctx, u.ID, dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "MANAGER", updated.Role)

	err = e.users.Delete(ctx, u.ID, u.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	require.NoError(t, e.users.Delete(ctx, "owner", u.ID))
}
