package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto operativo (alquiler, salarios, servicios...).
type Expense struct {
	ID            string
	ShopID        string
	Date          time.Time
	Category      string
	Description   string
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	AddedBy       string
	CreatedAt     time.Time
}
