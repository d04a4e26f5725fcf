package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
type StockTransactionType string

const (
	StockPurchase   StockTransactionType = "purchase"
	StockSale       StockTransactionType = "sale"
	StockAdjustment StockTransactionType = "adjustment"
	StockReturn     StockTransactionType = "return"
)

// StockTarget destino de stock: un producto sin variantes o una variante concreta.
type StockTarget struct {
	ProductID string
	VariantID string
}

// StockLedgerEntry movimiento inmutable de stock. Quantity positivo = entrada, negativo = salida.
// RemainingQty es lo que queda del lote (solo tiene sentido en entradas).
type StockLedgerEntry struct {
	ID              string
	ShopID          string
	Type            StockTransactionType
	ProductID       string
	VariantID       string
	BatchNo         string
	ExpiryDate      *time.Time
	Quantity        decimal.Decimal
	RemainingQty    decimal.Decimal
	UnitCost        decimal.Decimal
	PurchaseItemID  string
	SaleItemID      string
	Reference       string
	TransactionDate time.Time
	CreatedBy       string
	CreatedAt       time.Time
}
