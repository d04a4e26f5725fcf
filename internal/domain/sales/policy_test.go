package sales

import (
	"errors"
	"testing"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApplyPaymentPolicy_DueConCliente(t *testing.T) {
	p, err := ApplyPaymentPolicy(entity.PaymentDue, dec("100"), dec("250"), true)
	require.NoError(t, err)
	assert.True(t, p.PaidAmount.Equal(dec("100")))
	assert.True(t, p.DueAmount.Equal(dec("150")))
}

func TestApplyPaymentPolicy_CashFuerzaPagoTotal(t *testing.T) {
	p, err := ApplyPaymentPolicy(entity.PaymentCash, decimal.Zero, dec("250"), false)
	require.NoError(t, err)
	assert.True(t, p.PaidAmount.Equal(dec("250")))
	assert.True(t, p.DueAmount.IsZero())

	// lo enviado se ignora también si es mayor (vuelto en efectivo)
	p, err = ApplyPaymentPolicy(entity.PaymentCard, dec("999"), dec("250"), false)
	require.NoError(t, err)
	assert.True(t, p.PaidAmount.Equal(dec("250")))
}

func TestApplyPaymentPolicy_DueSinCliente(t *testing.T) {
	_, err := ApplyPaymentPolicy(entity.PaymentDue, decimal.Zero, dec("250"), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPaymentPolicy))
	de, _ := domain.AsError(err)
	assert.Equal(t, domain.CodeCustomerRequired, de.Code)
}

func TestApplyPaymentPolicy_Sobrepago(t *testing.T) {
	_, err := ApplyPaymentPolicy(entity.PaymentDue, dec("300"), dec("250"), true)
	require.Error(t, err)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeOverpaid, de.Code)
}

func TestEarnedPoints(t *testing.T) {
	assert.Equal(t, int64(2), EarnedPoints(dec("250")))
	assert.Equal(t, int64(0), EarnedPoints(dec("99.99")))
	assert.Equal(t, int64(1), EarnedPoints(dec("100")))
	assert.Equal(t, int64(0), EarnedPoints(decimal.Zero))
}

func TestNextPoints(t *testing.T) {
	assert.Equal(t, int64(7), NextPoints(10, 5, 2))
	assert.Equal(t, int64(2), NextPoints(3, 10, 2))
	assert.Equal(t, int64(2), NextPoints(0, 0, 2))
}

func TestComputeTotals(t *testing.T) {
	l1 := ComputeLine(Line{Quantity: dec("2"), Price: dec("100"), VATApplicable: true, VATPercent: dec("15")})
	l2 := ComputeLine(Line{Quantity: dec("0.5"), Price: dec("100")})
	assert.True(t, l1.VATAmount.Equal(dec("30")))
	assert.True(t, l2.VATAmount.IsZero())

	tot, err := ComputeTotals([]LineAmounts{l1, l2}, dec("20"))
	require.NoError(t, err)
	assert.True(t, tot.Subtotal.Equal(dec("250")))
	assert.True(t, tot.VATAmount.Equal(dec("30")))
	assert.True(t, tot.Total.Equal(dec("260")))

	_, err = ComputeTotals([]LineAmounts{l2}, dec("60"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
