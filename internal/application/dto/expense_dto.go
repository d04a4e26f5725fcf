package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest gasto operativo.
type CreateExpenseRequest struct {
	Category      string          `json:"category" validate:"required,max=100"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=cash mobile card bank other"`
	Date          *time.Time      `json:"date"`
}

// ExpenseResponse gasto registrado.
type ExpenseResponse struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	AddedBy       string          `json:"added_by,omitempty"`
}
