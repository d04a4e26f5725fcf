package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta confirmada. DueAmount solo es distinto de cero en ventas a crédito (PaymentDue).
type Sale struct {
	ID             string
	ShopID         string
	CustomerID     string // vacío = venta sin cliente
	Date           time.Time
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	VATAmount      decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  PaymentMethod
	PaidAmount     decimal.Decimal
	DueAmount      decimal.Decimal
	RedeemedPoints int64
	EarnedPoints   int64
	TrxID          string
	CreatedBy      string
	CreatedAt      time.Time
}

// SaleItem línea de venta; Quantity admite fracciones (kg, litros).
type SaleItem struct {
	ID            string
	SaleID        string
	ShopID        string
	ProductID     string
	VariantID     string
	Quantity      decimal.Decimal
	Unit          string
	Price         decimal.Decimal
	Total         decimal.Decimal
	VATApplicable bool
	VATPercent    decimal.Decimal
	VATAmount     decimal.Decimal
}
