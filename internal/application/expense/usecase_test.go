package expense

import (
	"context"
	"testing"
	"time"

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

func setup(t *testing.T) (*UseCase, repository.Repositories) {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	return NewUseCase(memory.NewTxRunner(store), repos, logger.Nop()), repos
}

func TestRecordExpense_DebitaCaja(t *testing.T) {
	ctx := context.Background()
	uc, repos := setup(t)

	resp, err := uc.RecordExpense(ctx, shopID, "u1", dto.CreateExpenseRequest{Category: "Arriendo", Description: "marzo", Amount: decimal.RequireFromString("800.004")})
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, "cash", resp.PaymentMethod)

	rows, err := repos.Cash.List(ctx, shopID, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.CashDebit, rows[0].Type)
	assert.Equal(t, entity.SourceExpense, rows[0].Source)
	assert.Equal(t, resp.ID, rows[0].ReferenceID)
	assert.Equal(t, "Arriendo: marzo", rows[0].Description)
	assert.True(t, rows[0].RunningBalance.Equal(decimal.NewFromInt(-800)))
}

func TestRecordExpense_Rechazos(t *testing.T) {
	ctx := context.Background()
	uc, repos := setup(t)
	tests := []struct {
		name string
		in   dto.CreateExpenseRequest
	}{
		{"sin categoría", dto.CreateExpenseRequest{Amount: decimal.NewFromInt(5)}},
		{"monto cero", dto.CreateExpenseRequest{Category: "Luz"}},
		{"a crédito", dto.CreateExpenseRequest{Category: "Luz", Amount: decimal.NewFromInt(5), PaymentMethod: "due"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.RecordExpense(ctx, shopID, "u1", tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	list, err := repos.Expenses.ListByShop(ctx, shopID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListExpenses_MasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, cat := range []string{"Agua", "Luz", "Internet"} {
		d := base.AddDate(0, 0, i)
		_, err := uc.RecordExpense(ctx, shopID, "u1", dto.CreateExpenseRequest{Category: cat, Amount: decimal.NewFromInt(10), Date: &d})
		require.NoError(t, err)
	}

	list, err := uc.ListExpenses(ctx, shopID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Internet", list[0].Category)
	assert.Equal(t, "Agua", list[2].Category)
}
