package cash

import (
	"testing"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNextBalance(t *testing.T) {
	b := NextBalance(decimal.Zero, entity.CashCredit, decimal.NewFromInt(500))
	assert.True(t, b.Equal(decimal.NewFromInt(500)))
	b = NextBalance(b, entity.CashDebit, decimal.NewFromInt(120))
	assert.True(t, b.Equal(decimal.NewFromInt(380)))
}

func TestManualSource(t *testing.T) {
	assert.True(t, ManualSource(entity.SourceAdjustment))
	assert.True(t, ManualSource(entity.SourceOpeningBalance))
	assert.False(t, ManualSource(entity.SourceSale))
	assert.False(t, ManualSource(entity.SourceSupplierPayment))
}
