package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerPayment abono de un cliente contra su saldo pendiente.
type CustomerPayment struct {
	ID            string
	ShopID        string
	CustomerID    string
	Date          time.Time
	MemoNo        string
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Remarks       string
	CreatedBy     string
	CreatedAt     time.Time
}

// SupplierPayment pago a un proveedor contra la deuda de compras.
type SupplierPayment struct {
	ID            string
	ShopID        string
	SupplierID    string
	Date          time.Time
	MemoNo        string
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Remarks       string
	CreatedBy     string
	CreatedAt     time.Time
}
