package cashledger

import (
	"context"
	"testing"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopID = "shop-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup() (*UseCase, *memory.Store) {
	store := memory.New()
	return NewUseCase(memory.NewTxRunner(store), store.Repositories(), logger.Nop()), store
}

func entry(typ, source, amount string) dto.CashEntryRequest {
	return dto.CashEntryRequest{TransactionType: typ, Source: source, Amount: dec(amount)}
}

func TestAppendCashEntry_SaldoAcumulado(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup()

	first, err := uc.AppendCashEntry(ctx, shopID, "u1", entry("credit", "investment", "500"))
	require.NoError(t, err)
	assert.True(t, first.RunningBalance.Equal(dec("500")))
	assert.True(t, first.IsManual)
	assert.Equal(t, "u1", first.CreatedBy)

	second, err := uc.AppendCashEntry(ctx, shopID, "u1", entry("debit", "bank_deposit", "120"))
	require.NoError(t, err)
	assert.True(t, second.RunningBalance.Equal(dec("380")))

	balance, err := uc.CurrentBalance(ctx, shopID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("380")))

	check, err := uc.VerifyBalance(ctx, shopID)
	require.NoError(t, err)
	assert.True(t, check.InSync)
	assert.True(t, check.StoredBalance.Equal(dec("380")))
}

func TestAppendCashEntry_TiendasIndependientes(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup()
	_, err := uc.AppendCashEntry(ctx, shopID, "u1", entry("credit", "opening_balance", "100"))
	require.NoError(t, err)
	other, err := uc.AppendCashEntry(ctx, "shop-2", "u2", entry("debit", "adjustment", "40"))
	require.NoError(t, err)
	assert.True(t, other.RunningBalance.Equal(dec("-40")))

	b1, _ := uc.CurrentBalance(ctx, shopID)
	b2, _ := uc.CurrentBalance(ctx, "shop-2")
	assert.True(t, b1.Equal(dec("100")))
	assert.True(t, b2.Equal(dec("-40")))
}

func TestAppendCashEntry_Rechazos(t *testing.T) {
	uc, _ := setup()
	tests := []struct {
		name   string
		userID string
		in     dto.CashEntryRequest
	}{
		{"sin usuario", "", entry("credit", "investment", "10")},
		{"origen de documento", "u1", entry("credit", "sale", "10")},
		{"monto cero", "u1", entry("credit", "manual", "0")},
		{"monto negativo", "u1", entry("debit", "manual", "-5")},
		{"tipo desconocido", "u1", entry("refund", "manual", "5")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.AppendCashEntry(context.Background(), shopID, tt.userID, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	list, err := uc.List(context.Background(), shopID, dto.CashListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSyncInTx_MontoCeroNoGeneraFila(t *testing.T) {
	ctx := context.Background()
	uc, store := setup()
	err := memory.NewTxRunner(store).Run(ctx, func(repos repository.Repositories) error {
		if err := SyncInTx(ctx, repos, Entry{ShopID: shopID, Type: entity.CashCredit, Source: entity.SourceSale, Amount: decimal.Zero}); err != nil {
			return err
		}
		return SyncInTx(ctx, repos, Entry{ShopID: shopID, Type: entity.CashCredit, Source: entity.SourceSale, Amount: dec("12.345"), ReferenceID: "sale-1", IsManual: true})
	})
	require.NoError(t, err)

	list, err := uc.List(ctx, shopID, dto.CashListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsManual)
	assert.Equal(t, "sale", list[0].ReferenceType)
	assert.Equal(t, "sale-1", list[0].ReferenceID)
	assert.True(t, list[0].Amount.Equal(dec("12.35")))
}

func TestVerifyBalance_LibroVacio(t *testing.T) {
	uc, _ := setup()
	check, err := uc.VerifyBalance(context.Background(), shopID)
	require.NoError(t, err)
	assert.True(t, check.InSync)
	assert.True(t, check.Balance.IsZero())
}
