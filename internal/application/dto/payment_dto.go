package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Phone          string          `json:"phone" validate:"max=20"`
	Address        string          `json:"address"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// SupplierResponse proveedor.
type SupplierResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CustomerListQuery listado de clientes con búsqueda por nombre o teléfono.
type CustomerListQuery struct {
	Search string `query:"search" validate:"max=100"`
	PageRequest
}

// CustomerLookupQuery teléfono capturado en el POS.
type CustomerLookupQuery struct {
	Phone string `query:"phone" validate:"required,max=20"`
}

// CustomerResponse cliente con su saldo pendiente cuando se consulta uno solo.
type CustomerResponse struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Phone  string           `json:"phone"`
	Points int64            `json:"points"`
	Due    *decimal.Decimal `json:"due,omitempty"`
}

// CustomerPaymentRequest abono de un cliente.
type CustomerPaymentRequest struct {
	CustomerID    string          `json:"customer_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=cash mobile card bank other"`
	MemoNo        string          `json:"memo_no" validate:"max=100"`
	Remarks       string          `json:"remarks"`
	Date          *time.Time      `json:"date"`
}

// SupplierPaymentRequest pago a proveedor.
type SupplierPaymentRequest struct {
	SupplierID    string          `json:"supplier_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=cash mobile card bank other"`
	MemoNo        string          `json:"memo_no" validate:"max=100"`
	Remarks       string          `json:"remarks"`
	Date          *time.Time      `json:"date"`
}

// PaymentResponse abono o pago registrado.
type PaymentResponse struct {
	ID            string          `json:"id"`
	PartyID       string          `json:"party_id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	MemoNo        string          `json:"memo_no,omitempty"`
	Remarks       string          `json:"remarks,omitempty"`
	DueAfter      decimal.Decimal `json:"due_after"`
}

// DueResponse saldo pendiente derivado de los libros.
type DueResponse struct {
	PartyID string          `json:"party_id"`
	Charged decimal.Decimal `json:"charged"`
	Paid    decimal.Decimal `json:"paid"`
	Due     decimal.Decimal `json:"due"`
}

// StatementRow fila del estado de cuenta de proveedor.
type StatementRow struct {
	Date       time.Time       `json:"date"`
	Type       string          `json:"type"` // purchase | payment
	DocumentID string          `json:"document_id"`
	Memo       string          `json:"memo"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Balance    decimal.Decimal `json:"balance"`
}

// SupplierStatementResponse estado de cuenta cronológico de un proveedor.
type SupplierStatementResponse struct {
	SupplierID     string          `json:"supplier_id"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalPurchase  decimal.Decimal `json:"total_purchase"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalDue       decimal.Decimal `json:"total_due"`
	Rows           []StatementRow  `json:"ledger"`
}
