package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de una compra a proveedor.
type Purchase struct {
	ID            string
	ShopID        string
	SupplierID    string
	InvoiceNo     string // único por tienda
	Date          time.Time
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaidAmount    decimal.Decimal
	DueAmount     decimal.Decimal
	PaymentMethod PaymentMethod
	Remarks       string
	CreatedBy     string
	CreatedAt     time.Time
}

// PurchaseItem línea de compra en paquetes. Apunta a un producto o a una variante (VariantID).
// TotalBaseQty, CostPerBaseUnit y Total se derivan de la conversión de unidades.
type PurchaseItem struct {
	ID              string
	PurchaseID      string
	ShopID          string
	ProductID       string
	VariantID       string
	PackUnit        string
	PackSize        decimal.Decimal
	QtyPacks        decimal.Decimal
	PricePerPack    decimal.Decimal
	TotalBaseQty    decimal.Decimal
	CostPerBaseUnit decimal.Decimal
	Total           decimal.Decimal
	BatchNo         string
	ExpiryDate      *time.Time
	MRP             *decimal.Decimal
}
