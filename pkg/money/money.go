// Package money centraliza el redondeo de importes y cantidades.
// Todos los valores monetarios y de cantidad son decimal.Decimal; el redondeo
// se aplica una sola vez, al persistir o mostrar.
package money

import "github.com/shopspring/decimal"

const (
	CurrencyPlaces = 2
	QuantityPlaces = 3
)

var hundred = decimal.NewFromInt(100)

// Currency redondea a 2 decimales (half-up para valores no negativos).
func Currency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// Quantity redondea a 3 decimales.
func Quantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}

// Percent devuelve base * pct / 100 sin redondear.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// Max devuelve el mayor de a y b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
