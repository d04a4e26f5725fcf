package stockledger

import (
	"context"
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

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// countingLedger cuenta las páginas pedidas al repositorio.
type countingLedger struct {
	repository.StockLedgerRepository
	calls int
}

func (c *countingLedger) ListBatches(ctx context.Context, shopID string, t entity.StockTarget, after *repository.BatchCursor, limit int) ([]*entity.StockLedgerEntry, error) {
	c.calls++
	return c.StockLedgerRepository.ListBatches(ctx, shopID, t, after, limit)
}

func setup(t *testing.T) (*UseCase, repository.Repositories, *entity.Product) {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	p := &entity.Product{ShopID: shopID, Title: "Yogur", Code: "Y", PurchasedPrice: dec("2")}
	require.NoError(t, repos.Products.Create(context.Background(), p))
	uc := NewUseCase(memory.NewTxRunner(store), repos, lock.NewLocalLocker(time.Second), logger.Nop())
	return uc, repos, p
}

func TestRecord_EntradaYSalida(t *testing.T) {
	ctx := context.Background()
	uc, repos, p := setup(t)
	target := entity.StockTarget{ProductID: p.ID}

	in, err := uc.Record(ctx, Movement{ShopID: shopID, Type: entity.StockAdjustment, Target: target, Quantity: dec("4"), CreatedBy: "u1"})
	require.NoError(t, err)
	assert.True(t, in.RemainingQty.Equal(dec("4")))
	assert.True(t, in.UnitCost.Equal(dec("2")))

	out, err := uc.Record(ctx, Movement{ShopID: shopID, Type: entity.StockAdjustment, Target: target, Quantity: dec("-1.5")})
	require.NoError(t, err)
	assert.True(t, out.RemainingQty.IsZero())

	got, _ := repos.Products.GetByID(ctx, p.ID)
	assert.True(t, got.Stock.Equal(dec("2.5")))

	rec, err := uc.Reconcile(ctx, shopID, target)
	require.NoError(t, err)
	assert.True(t, rec.InSync)
	assert.True(t, rec.LedgerStock.Equal(dec("2.5")))
}

func TestRecord_SalidaSinStockFalla(t *testing.T) {
	uc, repos, p := setup(t)
	_, err := uc.Record(context.Background(), Movement{ShopID: shopID, Type: entity.StockAdjustment, Target: entity.StockTarget{ProductID: p.ID}, Quantity: dec("-1")})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	hist, err := repos.StockLedger.ListByTarget(context.Background(), shopID, entity.StockTarget{ProductID: p.ID}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestRecord_Validaciones(t *testing.T) {
	uc, _, p := setup(t)
	target := entity.StockTarget{ProductID: p.ID}
	cases := map[string]Movement{
		"cantidad cero":    {ShopID: shopID, Type: entity.StockAdjustment, Target: target},
		"compra negativa":  {ShopID: shopID, Type: entity.StockPurchase, Target: target, Quantity: dec("-1")},
		"venta positiva":   {ShopID: shopID, Type: entity.StockSale, Target: target, Quantity: dec("1")},
		"tipo desconocido": {ShopID: shopID, Type: "gift", Target: target, Quantity: dec("1")},
		"sin producto":     {ShopID: shopID, Type: entity.StockAdjustment, Quantity: dec("1")},
		"costo negativo":   {ShopID: shopID, Type: entity.StockReturn, Target: target, Quantity: dec("1"), UnitCost: dec("-1")},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Record(context.Background(), m)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestAdjust_DevolucionDeCliente(t *testing.T) {
	uc, _, p := setup(t)
	resp, err := uc.Adjust(context.Background(), shopID, "u1", dto.StockAdjustmentRequest{
		ProductID: p.ID, Type: "return", Quantity: dec("2"), Reason: "cliente devolvió",
	})
	require.NoError(t, err)
	assert.Equal(t, "return", resp.Type)
	assert.Equal(t, "cliente devolvió", resp.Reference)

	_, err = uc.Adjust(context.Background(), shopID, "u1", dto.StockAdjustmentRequest{ProductID: p.ID, Type: "sale", Quantity: dec("-1"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Adjust(context.Background(), "shop-2", "u1", dto.StockAdjustmentRequest{ProductID: p.ID, Type: "adjustment", Quantity: dec("1"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBatchesFor_PerezosaYReiniciable(t *testing.T) {
	ctx := context.Background()
	uc, repos, p := setup(t)
	target := entity.StockTarget{ProductID: p.ID}
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, days := range []int{30, 10, 20, 40, 0} {
		var expiry *time.Time
		if days > 0 {
			e := base.AddDate(0, 0, days)
			expiry = &e
		}
		_, err := uc.Record(ctx, Movement{
			ShopID: shopID, Type: entity.StockPurchase, Target: target,
			Quantity: decimal.NewFromInt(int64(i + 1)), ExpiryDate: expiry,
			TransactionDate: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	counter := &countingLedger{StockLedgerRepository: repos.StockLedger}
	uc.repos.StockLedger = counter
	uc.pageSize = 2

	var first []string
	for e, err := range uc.BatchesFor(ctx, shopID, target) {
		require.NoError(t, err)
		first = append(first, e.Quantity.String())
	}
	// vencimientos 10, 20, 30, 40 días y el lote sin vencimiento al final
	assert.Equal(t, []string{"2", "3", "1", "4", "5"}, first)
	assert.Equal(t, 3, counter.calls)

	// cortar temprano no pide más páginas
	counter.calls = 0
	for e, err := range uc.BatchesFor(ctx, shopID, target) {
		require.NoError(t, err)
		assert.Equal(t, "2", e.Quantity.String())
		break
	}
	assert.Equal(t, 1, counter.calls)

	// reiniciable: otra pasada devuelve lo mismo
	again, err := uc.Batches(ctx, shopID, target)
	require.NoError(t, err)
	assert.Len(t, again, 5)
}

func TestReconcile_DetectaDesfase(t *testing.T) {
	ctx := context.Background()
	uc, repos, p := setup(t)
	require.NoError(t, repos.Products.AddStock(ctx, p.ID, dec("3")))

	rec, err := uc.Reconcile(ctx, shopID, entity.StockTarget{ProductID: p.ID})
	require.NoError(t, err)
	assert.False(t, rec.InSync)
	assert.True(t, rec.Drift.Equal(dec("3")))
}
