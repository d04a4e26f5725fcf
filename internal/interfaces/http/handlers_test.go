package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/cashledger"
	"github.com/jhoicas/pos-ledger/internal/application/catalog"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/expense"
	"github.com/jhoicas/pos-ledger/internal/application/payment"
	"github.com/jhoicas/pos-ledger/internal/application/purchase"
	"github.com/jhoicas/pos-ledger/internal/application/sale"
	"github.com/jhoicas/pos-ledger/internal/application/stockledger"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// newAPI arma la API completa sobre el almacenamiento en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	tx := memory.NewTxRunner(store)
	locker := lock.NewLocalLocker(time.Second)
	log := logger.Nop()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Catalog:   catalog.NewUseCase(tx, repos, log),
		Stock:     stockledger.NewUseCase(tx, repos, locker, log),
		Purchases: purchase.NewUseCase(tx, repos, locker, log),
		Sales:     sale.NewUseCase(tx, repos, locker, log),
		Payments:  payment.NewUseCase(tx, repos, log),
		Expenses:  expense.NewUseCase(tx, repos, log),
		Cash:      cashledger.NewUseCase(tx, repos, log),
		Log:       log,
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createProduct(t *testing.T, app *fiber.App, auth, code string, stock int64) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	status := call(t, app, http.MethodPost, "/api/products", auth, fiber.Map{
		"title":           "Producto " + code,
		"code":            code,
		"base_unit":       "piece",
		"purchased_price": "6",
		"regular_price":   "10",
		"opening_stock":   stock,
	}, &p)
	require.Equal(t, http.StatusCreated, status)
	return p
}

func TestAPI_VentaDescuentaStockYAcreditaCaja(t *testing.T) {
	app := newAPI(t)
	auth := tokenForRole(t, "cashier")
	p := createProduct(t, app, auth, "P-1", 5)
	assert.True(t, p.SellingPrice.Equal(decimal.NewFromInt(10)))

	var sold dto.SaleResponse
	status := call(t, app, http.MethodPost, "/api/sales", auth, fiber.Map{
		"items": []fiber.Map{{"product_id": p.ID, "quantity": 3}},
	}, &sold)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, sold.Total.Equal(decimal.NewFromInt(30)))
	assert.True(t, sold.PaidAmount.Equal(decimal.NewFromInt(30)))

	var rejected dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/sales", auth, fiber.Map{
		"items": []fiber.Map{{"product_id": p.ID, "quantity": 3}},
	}, &rejected)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", rejected.Code)
	assert.Equal(t, "2", rejected.Available)

	var level dto.StockLevelResponse
	status = call(t, app, http.MethodGet, "/api/stock/level?product_id="+p.ID, auth, nil, &level)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, level.Stock.Equal(decimal.NewFromInt(2)))

	var balance dto.CashBalanceResponse
	status = call(t, app, http.MethodGet, "/api/cash/balance", auth, nil, &balance)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(30)))
	assert.True(t, balance.InSync)

	var got dto.SaleResponse
	status = call(t, app, http.MethodGet, "/api/sales/"+sold.ID, auth, nil, &got)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, got.Items, 1)
}

func TestAPI_TiendaSaleDelToken(t *testing.T) {
	app := newAPI(t)
	p := createProduct(t, app, tokenFor(t, testUserID, "shop-a", "admin"), "P-1", 1)

	var e dto.ErrorResponse
	status := call(t, app, http.MethodGet, "/api/products/"+p.ID, tokenFor(t, testUserID, "shop-b", "admin"), nil, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "TENANT_MISMATCH", e.Code)
}

func TestAPI_ValidacionDevuelveCampos(t *testing.T) {
	app := newAPI(t)
	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/sales", tokenForRole(t, "cashier"), fiber.Map{}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "required", e.Fields["items"])
}

func TestAPI_VentaACreditoSinCliente(t *testing.T) {
	app := newAPI(t)
	auth := tokenForRole(t, "cashier")
	p := createProduct(t, app, auth, "P-1", 5)

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/sales", auth, fiber.Map{
		"items":   []fiber.Map{{"product_id": p.ID, "quantity": 1}},
		"payment": fiber.Map{"method": "due", "paid_amount": 0},
	}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "CUSTOMER_REQUIRED", e.Code)
}

func TestAPI_SinToken(t *testing.T) {
	app := newAPI(t)
	status := call(t, app, http.MethodGet, "/api/products", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_MovimientoManualDeCajaPorRol(t *testing.T) {
	app := newAPI(t)
	entry := fiber.Map{"transaction_type": "credit", "source": "investment", "amount": "500"}

	status := call(t, app, http.MethodPost, "/api/cash/transactions", tokenForRole(t, "cashier"), entry, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var created dto.CashTransactionResponse
	status = call(t, app, http.MethodPost, "/api/cash/transactions", tokenForRole(t, "manager"), entry, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, created.RunningBalance.Equal(decimal.NewFromInt(500)))
	assert.True(t, created.IsManual)

	var list struct {
		Transactions []dto.CashTransactionResponse `json:"transactions"`
	}
	status = call(t, app, http.MethodGet, "/api/cash/transactions?from=2000-01-01", tokenForRole(t, "cashier"), nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list.Transactions, 1)

	var e dto.ErrorResponse
	status = call(t, app, http.MethodGet, "/api/cash/transactions?from=ayer", tokenForRole(t, "cashier"), nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUERY", e.Code)
}

func TestAPI_ConsultasDelPOS(t *testing.T) {
	app := newAPI(t)
	auth := tokenForRole(t, "cashier")
	p := createProduct(t, app, auth, "P-1", 5)

	var found dto.ProductResponse
	status := call(t, app, http.MethodGet, "/api/products/lookup?code=P-1", auth, nil, &found)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, p.ID, found.ID)

	var e dto.ErrorResponse
	status = call(t, app, http.MethodGet, "/api/products/lookup?code=NO-EXISTE", auth, nil, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", e.Code)

	status = call(t, app, http.MethodPost, "/api/sales", auth, fiber.Map{
		"customer_data": fiber.Map{"name": "Ana", "phone": "3001234567"},
		"items":         []fiber.Map{{"product_id": p.ID, "quantity": 2}},
		"payment":       fiber.Map{"method": "due", "paid_amount": 5},
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	status = call(t, app, http.MethodPost, "/api/sales", auth, fiber.Map{
		"items": []fiber.Map{{"product_id": p.ID, "quantity": 1}},
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var customer dto.CustomerResponse
	status = call(t, app, http.MethodGet, "/api/customers/lookup?phone=3001234567", auth, nil, &customer)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ana", customer.Name)
	require.NotNil(t, customer.Due)
	assert.True(t, customer.Due.Equal(decimal.NewFromInt(15)))

	var customers struct {
		Customers []dto.CustomerResponse `json:"customers"`
	}
	status = call(t, app, http.MethodGet, "/api/customers?search=an", auth, nil, &customers)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, customers.Customers, 1)
	assert.Nil(t, customers.Customers[0].Due)

	var sales struct {
		Sales []dto.SaleResponse `json:"sales"`
	}
	status = call(t, app, http.MethodGet, "/api/sales?limit=10", auth, nil, &sales)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, sales.Sales, 2)
	assert.Empty(t, sales.Sales[0].Items)
}

func TestAPI_CategoriasSoloGerentes(t *testing.T) {
	app := newAPI(t)
	body := fiber.Map{"name": "Bebidas"}

	status := call(t, app, http.MethodPost, "/api/categories", tokenForRole(t, "cashier"), body, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var created dto.CategoryResponse
	status = call(t, app, http.MethodPost, "/api/categories", tokenForRole(t, "manager"), body, &created)
	require.Equal(t, http.StatusCreated, status)

	var e dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/categories", tokenForRole(t, "manager"), body, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", e.Code)

	var list struct {
		Categories []dto.CategoryResponse `json:"categories"`
	}
	status = call(t, app, http.MethodGet, "/api/categories", tokenForRole(t, "cashier"), nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list.Categories, 1)
	assert.Equal(t, created.ID, list.Categories[0].ID)
}
