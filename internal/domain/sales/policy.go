// Package sales reglas puras de una venta: totales, política de pago y puntos de fidelidad.
package sales

import (
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// PointsDivisor un punto por cada 100 de total.
var PointsDivisor = decimal.NewFromInt(100)

// Line datos de una línea necesarios para el cálculo.
type Line struct {
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	VATApplicable bool
	VATPercent    decimal.Decimal
}

// LineAmounts total e IVA de una línea, ya redondeados a moneda.
type LineAmounts struct {
	Total     decimal.Decimal
	VATAmount decimal.Decimal
}

// Totals resumen monetario de la venta.
type Totals struct {
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	VATAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeLine total = cantidad * precio; IVA = total * porcentaje / 100 si aplica.
func ComputeLine(l Line) LineAmounts {
	total := money.Currency(l.Quantity.Mul(l.Price))
	vat := decimal.Zero
	if l.VATApplicable && l.VATPercent.IsPositive() {
		vat = money.Currency(money.Percent(total, l.VATPercent))
	}
	return LineAmounts{Total: total, VATAmount: vat}
}

// ComputeTotals total = subtotal - descuento + IVA. El descuento no puede superar el subtotal.
func ComputeTotals(lines []LineAmounts, discount decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, domain.Validation("discount", "el descuento no puede ser negativo")
	}
	subtotal, vat := decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
		vat = vat.Add(l.VATAmount)
	}
	discount = money.Currency(discount)
	if discount.GreaterThan(subtotal) {
		return Totals{}, domain.Validation("discount", "el descuento no puede superar el subtotal")
	}
	return Totals{
		Subtotal:  subtotal,
		Discount:  discount,
		VATAmount: vat,
		Total:     money.Currency(subtotal.Sub(discount).Add(vat)),
	}, nil
}

// Payment resultado de aplicar la política de pago.
type Payment struct {
	PaidAmount decimal.Decimal
	DueAmount  decimal.Decimal
}

// ApplyPaymentPolicy
//   - método distinto de "due": pagado = total, pendiente = 0 (se ignora lo enviado).
//   - método "due": exige cliente; pagado = lo enviado (0 <= pagado <= total), pendiente = total - pagado.
func ApplyPaymentPolicy(method entity.PaymentMethod, paid, total decimal.Decimal, hasCustomer bool) (Payment, error) {
	if method != entity.PaymentDue {
		return Payment{PaidAmount: total, DueAmount: decimal.Zero}, nil
	}
	if !hasCustomer {
		return Payment{}, domain.CustomerRequired()
	}
	if paid.IsNegative() {
		return Payment{}, domain.Validation("paid_amount", "el monto pagado no puede ser negativo")
	}
	paid = money.Currency(paid)
	if paid.GreaterThan(total) {
		return Payment{}, domain.Overpaid(paid, total)
	}
	return Payment{PaidAmount: paid, DueAmount: total.Sub(paid)}, nil
}

// EarnedPoints floor(total / 100).
func EarnedPoints(total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	return total.Div(PointsDivisor).Floor().IntPart()
}

// NextPoints max(0, actuales - canjeados) + ganados.
func NextPoints(current, redeemed, earned int64) int64 {
	left := current - redeemed
	if left < 0 {
		left = 0
	}
	return left + earned
}

// ValidMethod indica si el medio de pago es conocido.
func ValidMethod(m entity.PaymentMethod) bool {
	switch m {
	case entity.PaymentCash, entity.PaymentMobile, entity.PaymentCard,
		entity.PaymentBank, entity.PaymentDue, entity.PaymentOther:
		return true
	}
	return false
}
