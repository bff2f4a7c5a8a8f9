package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandwere/stock-pos/internal/application/auth"
	appinventory "github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/internal/application/usecase"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/infrastructure/memory"
	apphttp "github.com/nandwere/stock-pos/internal/interfaces/http"
	"github.com/nandwere/stock-pos/pkg/logger"
)

const ownerPassword = "owner-pass"

type api struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.New()
	log := logger.Nop()

	hash, err := auth.HashPassword(ownerPassword)
	require.NoError(t, err)
	now := time.Now().UTC()
	for _, u := range []entity.User{
		{ID: "owner-1", Email: "admin@stockpos.local", Name: "Admin", Role: entity.RoleOwner, IsActive: true},
		{ID: "cashier-1", Email: "cajero@stockpos.local", Name: "Cajero", Role: entity.RoleCashier, IsActive: true},
		{ID: "old-1", Email: "old@stockpos.local", Name: "Inactivo", Role: entity.RoleCashier, IsActive: false},
	} {
		u := u
		u.PasswordHash, u.CreatedAt, u.UpdatedAt = hash, now, now
		require.NoError(t, store.Users().Create(context.Background(), &u))
	}

	ledger := appinventory.NewLedgerUseCase(store, nil, appinventory.LedgerConfig{}, log)
	replenishment := appinventory.NewReplenishmentUseCase(store.Products(), store.Sales(), appinventory.ReplenishmentConfig{
		LeadTimeDays: 3, SafetyStockDays: 7, LookbackDays: 30,
	})
	app := apphttp.NewApp(apphttp.AppConfig{Name: "stock-pos-test"}, log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}),
		ProductUC:  usecase.NewProductUseCase(store.Products(), store.Sales(), nil),
		CategoryUC: usecase.NewCategoryUseCase(store.Categories()),
		UserUC:     usecase.NewUserUseCase(store.Users()),
		SaleUC:     usecase.NewSaleUseCase(ledger, store.Sales(), nil, log),
		StockUC:    usecase.NewStockUseCase(ledger, store.Products(), store.Sales(), store.Adjustments(), store.Counts()),
		ReportUC:   usecase.NewReportUseCase(store.Products(), store.Sales(), store.Counts(), replenishment, nil),
		JWTSecret:  testJWTSecret,
	})
	return &api{app: app, store: store}
}

func (a *api) call(t *testing.T, method, path, token string, body interface{}, headers ...string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (a *api) login(t *testing.T, email string) string {
	t.Helper()
	status, body := a.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": ownerPassword})
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func (a *api) createProduct(t *testing.T, token, sku, stock string) string {
	t.Helper()
	status, body := a.call(t, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Producto " + sku, "sku": sku, "unit": "Kg",
		"costPrice": "170", "sellingPrice": "200", "currentStock": stock, "reorderLevel": "2",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["id"].(string)
}

func TestAPI_Health(t *testing.T) {
	a := newAPI(t)
	status, body := a.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_Login(t *testing.T) {
	a := newAPI(t)

	// Caso 1: credenciales válidas
	token := a.login(t, "admin@stockpos.local")
	status, me := a.call(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OWNER", me["role"])

	// Caso 2: contraseña incorrecta
	status, body := a.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@stockpos.local", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	// Caso 3: usuario inactivo
	status, body = a.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "old@stockpos.local", "password": ownerPassword})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "INACTIVE_USER", body["code"])

	// Caso 4: email inválido
	status, body = a.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "no-es-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	status, _ = a.call(t, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAPI_SaleFlow(t *testing.T) {
	a := newAPI(t)
	owner := a.login(t, "admin@stockpos.local")
	cashier := a.login(t, "cajero@stockpos.local")
	p1 := a.createProduct(t, owner, "A-1", "10")
	p2 := a.createProduct(t, owner, "B-1", "2")

	// Caso 1: una línea sin stock rechaza la venta completa
	status, body := a.call(t, http.MethodPost, "/api/sales", cashier, map[string]interface{}{
		"paymentMethod": "CASH",
		"items": []map[string]interface{}{
			{"productId": p1, "quantity": "5"},
			{"productId": p2, "quantity": "5"},
		},
	})
	require.Equal(t, http.StatusBadRequest, status, body)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	details := body["details"].(map[string]interface{})
	assert.Equal(t, p2, details["productId"])
	assert.Equal(t, "2", details["available"])
	assert.Equal(t, "5", details["requested"])

	_, stock := a.call(t, http.MethodGet, "/api/inventory/"+p1+"/stock", cashier, nil)
	assert.Equal(t, "10", stock["currentStock"])

	// Caso 2: venta válida con clave de idempotencia
	sale := map[string]interface{}{
		"paymentMethod": "MOBILE_MONEY",
		"amountPaid":    "1000",
		"items":         []map[string]interface{}{{"productId": p1, "quantity": "4"}},
	}
	status, created := a.call(t, http.MethodPost, "/api/sales", cashier, sale, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, status, created)
	assert.Equal(t, "800", created["total"])
	assert.Equal(t, "200", created["change"])

	status, replay := a.call(t, http.MethodPost, "/api/sales", cashier, sale, "Idempotency-Key", "k-1")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created["id"], replay["id"])
	assert.Equal(t, true, replay["replayed"])

	_, stock = a.call(t, http.MethodGet, "/api/inventory/"+p1+"/stock", cashier, nil)
	assert.Equal(t, "6", stock["currentStock"])

	// Caso 3: listado {data, meta}
	status, list := a.call(t, http.MethodGet, "/api/sales?paymentMethod=MOBILE_MONEY", cashier, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list["data"], 1)
	assert.Equal(t, float64(1), list["meta"].(map[string]interface{})["total"])

	// Caso 4: el cajero no puede borrar ventas
	status, _ = a.call(t, http.MethodDelete, "/api/sales/"+created["id"].(string), cashier, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = a.call(t, http.MethodDelete, "/api/sales/"+created["id"].(string), owner, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = a.call(t, http.MethodGet, "/api/sales/"+created["id"].(string), owner, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_SaleValidation(t *testing.T) {
	a := newAPI(t)
	owner := a.login(t, "admin@stockpos.local")
	p1 := a.createProduct(t, owner, "A-1", "10")

	status, body := a.call(t, http.MethodPost, "/api/sales", owner, map[string]interface{}{
		"paymentMethod": "BITCOIN",
		"items":         []map[string]interface{}{{"productId": p1, "quantity": "1"}},
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	fields := body["details"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "paymentMethod", fields[0].(map[string]interface{})["field"])

	status, body = a.call(t, http.MethodPost, "/api/sales", owner, map[string]interface{}{
		"paymentMethod": "CASH",
		"items":         []map[string]interface{}{{"productId": p1, "quantity": "0"}},
	})
	require.Equal(t, http.StatusBadRequest, status)
	fields = body["details"].([]interface{})
	assert.Equal(t, "items[0].quantity", fields[0].(map[string]interface{})["field"])

	status, body = a.call(t, http.MethodPost, "/api/sales", owner, map[string]interface{}{
		"paymentMethod": "CASH",
		"items":         []map[string]interface{}{{"productId": "missing", "quantity": "1"}},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PRODUCT_NOT_FOUND", body["code"])
}

func TestAPI_AdjustmentsAndCounts(t *testing.T) {
	a := newAPI(t)
	owner := a.login(t, "admin@stockpos.local")
	cashier := a.login(t, "cajero@stockpos.local")
	p1 := a.createProduct(t, owner, "A-1", "20")

	// Caso 1: el cajero no ajusta stock
	adj := map[string]interface{}{"productId": p1, "type": "ADJUSTMENT_ADD", "quantity": "5", "reason": "compra"}
	status, _ := a.call(t, http.MethodPost, "/api/inventory/adjustments", cashier, adj)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := a.call(t, http.MethodPost, "/api/inventory/adjustments", owner, adj)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "20", body["previousStock"])
	assert.Equal(t, "25", body["newStock"])

	status, list := a.call(t, http.MethodGet, "/api/inventory/adjustments?productId="+p1, owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list["data"], 1)
	assert.Equal(t, float64(1), list["pagination"].(map[string]interface{})["totalPages"])

	// Caso 2: conteo físico sobrescribe el stock
	status, _ = a.call(t, http.MethodPost, "/api/stock-count", cashier, map[string]interface{}{
		"counts": []map[string]interface{}{{"productId": p1, "expectedStock": "25", "actualStock": "22"}},
	})
	require.Equal(t, http.StatusCreated, status)

	_, stock := a.call(t, http.MethodGet, "/api/inventory/"+p1+"/stock", cashier, nil)
	assert.Equal(t, "22", stock["currentStock"])

	status, summary := a.call(t, http.MethodGet, "/api/stock-count/unrecorded-sales", owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "600", summary["unrecordedRevenue"])
	assert.Equal(t, float64(1), summary["estimatedUnrecordedSalesCount"])

	// Caso 3: fecha inválida
	status, body = a.call(t, http.MethodGet, "/api/stock-count/sheet?date=ayer", cashier, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}

func TestAPI_CatalogConflicts(t *testing.T) {
	a := newAPI(t)
	owner := a.login(t, "admin@stockpos.local")

	status, cat := a.call(t, http.MethodPost, "/api/categories", owner, map[string]string{"name": "Rice"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = a.call(t, http.MethodPost, "/api/categories", owner, map[string]string{"name": "rice"})
	assert.Equal(t, http.StatusConflict, status)

	status, product := a.call(t, http.MethodPost, "/api/products", owner, map[string]interface{}{
		"name": "Pishori", "sku": "PSH-1", "categoryId": cat["id"], "sellingPrice": "180", "costPrice": "150",
	})
	require.Equal(t, http.StatusCreated, status, product)
	assert.Equal(t, "Rice", product["categoryName"])

	status, _ = a.call(t, http.MethodPost, "/api/products", owner, map[string]interface{}{"name": "Otro", "sku": "psh-1"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = a.call(t, http.MethodDelete, "/api/categories/"+cat["id"].(string), owner, nil)
	assert.Equal(t, http.StatusConflict, status)

	// El dueño no puede borrarse a sí mismo
	status, body := a.call(t, http.MethodDelete, "/api/users/owner-1", owner, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}

func TestAPI_Reports(t *testing.T) {
	a := newAPI(t)
	owner := a.login(t, "admin@stockpos.local")
	cashier := a.login(t, "cajero@stockpos.local")
	a.createProduct(t, owner, "A-1", "10")

	status, _ := a.call(t, http.MethodGet, "/api/reports?type=inventory", cashier, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, inv := a.call(t, http.MethodGet, "/api/reports?type=inventory", owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1700", inv["costValue"])
	assert.Equal(t, "2000", inv["retailValue"])

	status, body := a.call(t, http.MethodGet, "/api/reports?type=weather", owner, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	status, sales := a.call(t, http.MethodGet, "/api/reports?type=sales&startDate=2025-01-01&endDate=2025-01-31", owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), sales["salesCount"])
}
