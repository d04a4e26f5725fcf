package inventory

import (
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// PackLine compra expresada en paquetes (caja, cartón, botella...).
// PackUnit es solo una etiqueta; PackSize es la cantidad de unidades base por paquete.
type PackLine struct {
	PackUnit     string
	PackSize     decimal.Decimal
	QtyPacks     decimal.Decimal
	PricePerPack decimal.Decimal
}

// Conversion resultado en unidades base.
type Conversion struct {
	TotalBaseQty    decimal.Decimal
	CostPerBaseUnit decimal.Decimal
	Total           decimal.Decimal
}

// ConvertPack convierte paquetes a unidades base (función pura).
//
//	TotalBaseQty    = PackSize * QtyPacks
//	CostPerBaseUnit = PricePerPack / PackSize
//	Total           = PricePerPack * QtyPacks
func ConvertPack(l PackLine) (Conversion, error) {
	if l.QtyPacks.IsNegative() {
		return Conversion{}, domain.InvalidQuantity("qty_packs", "la cantidad de paquetes no puede ser negativa")
	}
	if !l.PackSize.IsPositive() {
		return Conversion{}, domain.InvalidQuantity("pack_size", "el tamaño del paquete debe ser mayor que cero")
	}
	if l.PricePerPack.IsNegative() {
		return Conversion{}, domain.InvalidQuantity("price_per_pack", "el precio por paquete no puede ser negativo")
	}

	cost := decimal.Zero
	if !l.PackSize.IsZero() {
		cost = l.PricePerPack.Div(l.PackSize)
	}
	return Conversion{
		TotalBaseQty:    money.Quantity(l.PackSize.Mul(l.QtyPacks)),
		CostPerBaseUnit: money.Currency(cost),
		Total:           money.Currency(l.PricePerPack.Mul(l.QtyPacks)),
	}, nil
}
