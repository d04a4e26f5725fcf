// Package catalog reglas de precios del catálogo.
package catalog

import (
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// SellingPrice precio explícito si viene; si no max(0, regular - descuento).
func SellingPrice(regular, discount decimal.Decimal, explicit *decimal.Decimal) decimal.Decimal {
	if explicit != nil {
		return money.Currency(*explicit)
	}
	return money.Currency(money.Max(decimal.Zero, regular.Sub(discount)))
}

// UnitPrice precio unitario de venta para un destino: override de la variante o precio del producto.
func UnitPrice(p *entity.Product, v *entity.ProductVariant) decimal.Decimal {
	if v != nil {
		if v.SellingPrice != nil {
			return *v.SellingPrice
		}
		if v.RegularPrice != nil {
			return SellingPrice(*v.RegularPrice, p.Discount, nil)
		}
	}
	return p.SellingPrice
}
