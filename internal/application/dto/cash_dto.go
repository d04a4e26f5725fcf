package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashEntryRequest movimiento manual de caja.
type CashEntryRequest struct {
	Date            *time.Time      `json:"date"`
	TransactionType string          `json:"transaction_type" validate:"required,oneof=credit debit"`
	Source          string          `json:"source" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method" validate:"omitempty,oneof=cash mobile card bank other"`
	Description     string          `json:"description"`
	ReferenceNo     string          `json:"reference_no" validate:"max=100"`
	BankName        string          `json:"bank_name" validate:"max=100"`
}

// CashTransactionResponse fila del libro de caja.
type CashTransactionResponse struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	Type           string          `json:"transaction_type"`
	Source         string          `json:"source"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Description    string          `json:"description,omitempty"`
	ReferenceNo    string          `json:"reference_no,omitempty"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	IsManual       bool            `json:"is_manual"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// CashBalanceResponse saldo recalculado vs. saldo acumulado almacenado.
type CashBalanceResponse struct {
	Balance       decimal.Decimal `json:"balance"`
	StoredBalance decimal.Decimal `json:"stored_balance"`
	InSync        bool            `json:"in_sync"`
}

// CashListQuery filtros del listado.
type CashListQuery struct {
	From *time.Time `query:"from"`
	To   *time.Time `query:"to"`
	PageRequest
}
