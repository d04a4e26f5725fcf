package sale

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopID = "shop-1"

type fixture struct {
	repos repository.Repositories
	uc    *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	return &fixture{
		repos: repos,
		uc:    NewUseCase(memory.NewTxRunner(store), repos, lock.NewLocalLocker(time.Second), logger.Nop()),
	}
}

func (f *fixture) product(t *testing.T, shop, code string, stock, price int64) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ShopID:         shop,
		Title:          "Producto " + code,
		Code:           code,
		BaseUnit:       entity.UnitPiece,
		PurchasedPrice: decimal.NewFromInt(price / 2),
		RegularPrice:   decimal.NewFromInt(price),
		SellingPrice:   decimal.NewFromInt(price),
		Stock:          decimal.NewFromInt(stock),
	}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func item(productID string, qty int64) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, Quantity: decimal.NewFromInt(qty)}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateSale_AgotaStockYRechazaLaSiguiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, shopID, "P1", 10, 20)

	resp, err := f.uc.CreateSale(ctx, shopID, "u1", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(p.ID, 10)}})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("200")))
	assert.True(t, f.stock(t, p.ID).IsZero())

	_, err = f.uc.CreateSale(ctx, shopID, "u1", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(p.ID, 1)}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, p.ID, de.EntityID)
	require.NotNil(t, de.Available)
	assert.True(t, de.Available.IsZero())
	assert.Contains(t, de.Message, "disponible: 0")
	assert.True(t, f.stock(t, p.ID).IsZero())
}

func TestCreateSale_VentaACreditoConCliente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, shopID, "P1", 5, 250)

	resp, err := f.uc.CreateSale(ctx, shopID, "u1", dto.CreateSaleRequest{
		Customer: &dto.SaleCustomerRequest{Name: "Ana", Phone: "555-1"},
		Items:    []dto.SaleItemRequest{item(p.ID, 1)},
		Payment:  dto.SalePaymentRequest{Method: "due", PaidAmount: dec("100")},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("250")))
	assert.True(t, resp.PaidAmount.Equal(dec("100")))
	assert.True(t, resp.DueAmount.Equal(dec("150")))
	assert.Equal(t, int64(2), resp.EarnedPoints)
	require.NotNil(t, resp.CustomerPoints)
	assert.Equal(t, int64(2), *resp.CustomerPoints)

	c, err := f.repos.Customers.GetByShopAndPhone(ctx, shopID, "555-1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int64(2), c.Points)
	assert.Equal(t, c.ID, resp.CustomerID)

	due, err := f.repos.Sales.SumDueByCustomer(ctx, shopID, c.ID)
	require.NoError(t, err)
	assert.True(t, due.Equal(dec("150")))

	last, err := f.repos.Cash.Last(ctx, shopID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, entity.CashCredit, last.Type)
	assert.Equal(t, entity.SourceSale, last.Source)
	assert.True(t, last.Amount.Equal(dec("100")))
	assert.False(t, last.IsManual)
	assert.Equal(t, resp.ID, last.ReferenceID)
}

func TestCreateSale_PagoNoCreditoFuerzaPagadoIgualAlTotal(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, shopID, "P1", 5, 250)

	resp, err := f.uc.CreateSale(context.Background(), shopID, "u1", dto.CreateSaleRequest{
		Items:   []dto.SaleItemRequest{item(p.ID, 1)},
		Payment: dto.SalePaymentRequest{Method: "cash", PaidAmount: decimal.Zero},
	})
	require.NoError(t, err)
	assert.True(t, resp.PaidAmount.Equal(dec("250")))
	assert.True(t, resp.DueAmount.IsZero())
}

func TestCreateSale_ErroresDePolitica(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, shopID, "P1", 5, 100)
	other := f.product(t, "shop-2", "P9", 5, 100)

	tests := []struct {
		name string
		in   dto.CreateSaleRequest
		kind error
		code string
	}{
		{
			name: "credito sin cliente",
			in:   dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(p.ID, 1)}, Payment: dto.SalePaymentRequest{Method: "due"}},
			kind: domain.ErrPaymentPolicy, code: domain.CodeCustomerRequired,
		},
		{
			name: "pagado mayor que total",
			in: dto.CreateSaleRequest{
				Customer: &dto.SaleCustomerRequest{Phone: "1"},
				Items:    []dto.SaleItemRequest{item(p.ID, 1)},
				Payment:  dto.SalePaymentRequest{Method: "due", PaidAmount: dec("101")},
			},
			kind: domain.ErrPaymentPolicy, code: domain.CodeOverpaid,
		},
		{
			name: "producto inexistente",
			in:   dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item("nope", 1)}},
			kind: domain.ErrNotFound, code: domain.CodeProductNotFound,
		},
		{
			name: "producto de otra tienda",
			in:   dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(other.ID, 1)}},
			kind: domain.ErrNotFound, code: domain.CodeProductNotFound,
		},
		{
			name: "cantidad cero",
			in:   dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(p.ID, 0)}},
			kind: domain.ErrInvalidInput, code: domain.CodeInvalidQuantity,
		},
		{
			name: "canje sin cliente",
			in:   dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(p.ID, 1)}, RedeemedPoints: 3},
			kind: domain.ErrInvalidInput, code: domain.CodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateSale(context.Background(), shopID, "u1", tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			de, ok := domain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, de.Code)
		})
	}

	// nada quedó a medias
	assert.True(t, f.stock(t, p.ID).Equal(decimal.NewFromInt(5)))
	c, err := f.repos.Customers.GetByShopAndPhone(context.Background(), shopID, "1")
	require.NoError(t, err)
	assert.Nil(t, c)
	last, err := f.repos.Cash.Last(context.Background(), shopID)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestCreateSale_FalloEnUnaLineaNoTocaNinguna(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, shopID, "A", 10, 10)
	b := f.product(t, shopID, "B", 1, 10)

	_, err := f.uc.CreateSale(context.Background(), shopID, "u1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(a.ID, 3), item(b.ID, 2)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, a.ID).Equal(decimal.NewFromInt(10)))
	assert.True(t, f.stock(t, b.ID).Equal(decimal.NewFromInt(1)))

	hist, err := f.repos.StockLedger.ListByTarget(context.Background(), shopID, entity.StockTarget{ProductID: a.ID}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestCreateSale_LineasRepetidasSumanLaCantidad(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, shopID, "A", 5, 10)

	_, err := f.uc.CreateSale(context.Background(), shopID, "u1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(p.ID, 3), item(p.ID, 3)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, p.ID).Equal(decimal.NewFromInt(5)))
}

func TestCreateSale_EscribeUnaFilaDeLibroPorLinea(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, shopID, "KG", 10, 80)

	resp, err := f.uc.CreateSale(ctx, shopID, "u1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: p.ID, Quantity: dec("2.5"), Unit: "kg"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Total.Equal(dec("200")))

	hist, err := f.repos.StockLedger.ListByTarget(ctx, shopID, entity.StockTarget{ProductID: p.ID}, 0, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, entity.StockSale, hist[0].Type)
	assert.True(t, hist[0].Quantity.Equal(dec("-2.5")))
	assert.True(t, hist[0].RemainingQty.IsZero())
	assert.Equal(t, resp.Items[0].ID, hist[0].SaleItemID)
	assert.True(t, f.stock(t, p.ID).Equal(dec("7.5")))
}

func TestCreateSale_ClienteExistenteActualizaNombreYCanjea(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, shopID, "P1", 10, 150)
	require.NoError(t, f.repos.Customers.Create(ctx, &entity.Customer{ShopID: shopID, Name: "Viejo", Phone: "777", Points: 5}))

	resp, err := f.uc.CreateSale(ctx, shopID, "u1", dto.CreateSaleRequest{
		Customer:       &dto.SaleCustomerRequest{Name: "Nuevo", Phone: "777"},
		Items:          []dto.SaleItemRequest{item(p.ID, 1)},
		RedeemedPoints: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.EarnedPoints)

	c, err := f.repos.Customers.GetByShopAndPhone(ctx, shopID, "777")
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", c.Name)
	assert.Equal(t, int64(1), c.Points) // max(0, 5-8) + 1
}

func TestCreateSale_IVAYDescuento(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := &entity.Product{
		ShopID: shopID, Title: "Gaseosa", Code: "G", BaseUnit: entity.UnitPiece,
		SellingPrice: dec("100"), Stock: decimal.NewFromInt(10),
		VATApplicable: true, VATPercent: dec("19"),
	}
	require.NoError(t, f.repos.Products.Create(ctx, p))

	resp, err := f.uc.CreateSale(ctx, shopID, "u1", dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{item(p.ID, 2)},
		Discount: dec("20"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(dec("200")))
	assert.True(t, resp.VATAmount.Equal(dec("38")))
	assert.True(t, resp.Total.Equal(dec("218")))
}

func TestCreateSale_ConcurrenciaNoDejaStockNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, shopID, "HOT", 5, 10)

	const buyers = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateSale(context.Background(), shopID, "u1", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(p.ID, 1)}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, buyers-5, insufficient)
	assert.True(t, f.stock(t, p.ID).IsZero())
	sum, err := f.repos.StockLedger.SumQuantity(context.Background(), shopID, entity.StockTarget{ProductID: p.ID})
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(-5)))
}

func TestGetSale_OtraTienda(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, shopID, "P1", 5, 10)
	resp, err := f.uc.CreateSale(context.Background(), shopID, "u1", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(p.ID, 1)}})
	require.NoError(t, err)

	got, err := f.uc.GetSale(context.Background(), shopID, resp.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = f.uc.GetSale(context.Background(), "shop-2", resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_ProductoDeOtraTiendaEsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	foreign := f.product(t, "shop-2", "P1", 5, 10)

	_, err := f.uc.CreateSale(ctx, shopID, "u1", dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(foreign.ID, 1)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrForbidden))

	// la otra tienda no se entera
	assert.True(t, f.stock(t, foreign.ID).Equal(decimal.NewFromInt(5)))
	rows, err := f.repos.StockLedger.ListByTarget(ctx, "shop-2", entity.StockTarget{ProductID: foreign.ID}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateSale_MismoTelefonoNuevoEnParaleloCreaUnSoloCliente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, shopID, "P1", 20, 10)

	const sales = 8
	var wg sync.WaitGroup
	errs := make([]error, sales)
	for i := 0; i < sales; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.CreateSale(context.Background(), shopID, "u1", dto.CreateSaleRequest{
				Customer: &dto.SaleCustomerRequest{Name: "Ana", Phone: "3009998888"},
				Items:    []dto.SaleItemRequest{item(p.ID, 1)},
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	list, err := f.repos.Customers.ListByShop(context.Background(), shopID, "3009998888", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(0), list[0].Points)
}

func TestListSales_MasRecientesPrimeroYPorTienda(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"s-old", "s-mid", "s-new"} {
		require.NoError(t, f.repos.Sales.Create(ctx, &entity.Sale{
			ID:     id,
			ShopID: shopID,
			Date:   base.Add(time.Duration(i) * time.Hour),
			Total:  decimal.NewFromInt(int64(10 * (i + 1))),
		}))
	}
	require.NoError(t, f.repos.Sales.Create(ctx, &entity.Sale{ID: "s-otra", ShopID: "shop-2", Date: base.Add(5 * time.Hour)}))

	list, err := f.uc.ListSales(ctx, shopID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "s-new", list[0].ID)
	assert.Equal(t, "s-old", list[2].ID)
	assert.Nil(t, list[0].Items)

	paged, err := f.uc.ListSales(ctx, shopID, dto.PageRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "s-mid", paged[0].ID)
}
