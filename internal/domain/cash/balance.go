// Package cash reglas del libro de caja.
package cash

import (
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Signed +amount para créditos, -amount para débitos.
func Signed(t entity.CashTransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == entity.CashDebit {
		return amount.Neg()
	}
	return amount
}

// NextBalance saldo acumulado tras aplicar el movimiento.
func NextBalance(previous decimal.Decimal, t entity.CashTransactionType, amount decimal.Decimal) decimal.Decimal {
	return previous.Add(Signed(t, amount))
}

// ManualSource indica si un origen puede registrarse a mano. Los orígenes de documentos
// (venta, compra, gasto, abonos) solo se generan por sincronización.
func ManualSource(s entity.CashSource) bool {
	switch s {
	case entity.SourceInvestment, entity.SourceBankDeposit, entity.SourceBankWithdrawal,
		entity.SourceOpeningBalance, entity.SourceAdjustment, entity.SourceManual:
		return true
	}
	return false
}
