package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := New()
	repos := store.Repositories()
	p := &entity.Product{ShopID: "s1", Title: "Arroz", Code: "A1", Stock: decimal.NewFromInt(5)}
	require.NoError(t, repos.Products.Create(ctx, p))

	boom := errors.New("boom")
	err := NewTxRunner(store).Run(ctx, func(tx repository.Repositories) error {
		require.NoError(t, tx.Products.AddStock(ctx, p.ID, decimal.NewFromInt(10)))
		require.NoError(t, tx.StockLedger.Append(ctx, &entity.StockLedgerEntry{ShopID: "s1", ProductID: p.ID, Quantity: decimal.NewFromInt(10)}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(5)))
	sum, err := repos.StockLedger.SumQuantity(ctx, "s1", entity.StockTarget{ProductID: p.ID})
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestTxRunner_CommitPersiste(t *testing.T) {
	ctx := context.Background()
	store := New()
	p := &entity.Product{ShopID: "s1", Title: "Arroz", Code: "A1"}
	require.NoError(t, store.Repositories().Products.Create(ctx, p))

	err := NewTxRunner(store).Run(ctx, func(tx repository.Repositories) error {
		return tx.Products.AddStock(ctx, p.ID, decimal.NewFromInt(3))
	})
	require.NoError(t, err)

	got, _ := store.Repositories().Products.GetByID(ctx, p.ID)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(3)))
}

func TestProductRepo_CodigoDuplicadoPorTienda(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ShopID: "s1", Code: "X"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ShopID: "s2", Code: "X"}))

	err := repos.Products.Create(ctx, &entity.Product{ShopID: "s1", Code: "X"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStockLedgerRepo_ListBatchesOrdenFIFO(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	target := entity.StockTarget{ProductID: "p1"}
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	exp := func(d int) *time.Time { t := day(d); return &t }
	add := func(id string, expiry *time.Time, txDate time.Time, qty int64) {
		require.NoError(t, repos.StockLedger.Append(ctx, &entity.StockLedgerEntry{
			ID: id, ShopID: "s1", ProductID: "p1", Type: entity.StockPurchase,
			ExpiryDate: expiry, TransactionDate: txDate,
			Quantity: decimal.NewFromInt(qty), RemainingQty: decimal.NewFromInt(qty),
		}))
	}
	add("sin-vencimiento", nil, day(1), 5)
	add("vence-20", exp(20), day(2), 5)
	add("vence-10-b", exp(10), day(3), 5)
	add("vence-10-a", exp(10), day(2), 5)
	add("agotado", exp(5), day(1), 0)

	all, err := repos.StockLedger.ListBatches(ctx, "s1", target, nil, 0)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"vence-10-a", "vence-10-b", "vence-20", "sin-vencimiento"}, ids)

	next, err := repos.StockLedger.ListBatches(ctx, "s1", target, &repository.BatchCursor{
		ExpiryDate: all[1].ExpiryDate, TransactionDate: all[1].TransactionDate, ID: all[1].ID,
	}, 1)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "vence-20", next[0].ID)
}

func TestCashTransactionRepo_SeqPorTienda(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	for _, shop := range []string{"s1", "s1", "s2"} {
		require.NoError(t, repos.Cash.Append(ctx, &entity.CashTransaction{ShopID: shop, Type: entity.CashCredit, Amount: decimal.NewFromInt(10)}))
	}
	last, err := repos.Cash.Last(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), last.Seq)
	last, _ = repos.Cash.Last(ctx, "s2")
	assert.Equal(t, int64(1), last.Seq)
}

func TestGetForUpdate_SoloFilasDeLaTienda(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	own := &entity.Product{ShopID: "s1", Code: "A"}
	other := &entity.Product{ShopID: "s2", Code: "B"}
	require.NoError(t, repos.Products.Create(ctx, own))
	require.NoError(t, repos.Products.Create(ctx, other))

	got, err := repos.Products.GetForUpdate(ctx, "s1", []string{other.ID, own.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, own.ID, got[0].ID)
}

func TestCustomerRepo_GetOrCreateForUpdateReusaElTelefono(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	first, err := repos.Customers.GetOrCreateForUpdate(ctx, &entity.Customer{ShopID: "s1", Name: "Ana", Phone: "300"})
	require.NoError(t, err)
	again, err := repos.Customers.GetOrCreateForUpdate(ctx, &entity.Customer{ShopID: "s1", Name: "Otra", Phone: "300"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Ana", again.Name)

	other, err := repos.Customers.GetOrCreateForUpdate(ctx, &entity.Customer{ShopID: "s2", Name: "Ana", Phone: "300"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestProductRepo_GetByShopAndBarcode(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	p := &entity.Product{ShopID: "s1", Title: "Leche", Code: "L1", Barcode: "ABC123"}
	require.NoError(t, repos.Products.Create(ctx, p))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ShopID: "s1", Title: "Sin barras", Code: "L2"}))

	got, err := repos.Products.GetByShopAndBarcode(ctx, "s1", "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)

	got, err = repos.Products.GetByShopAndBarcode(ctx, "s2", "ABC123")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = repos.Products.GetByShopAndBarcode(ctx, "s1", "")
	require.NoError(t, err)
	assert.Nil(t, got)
}
