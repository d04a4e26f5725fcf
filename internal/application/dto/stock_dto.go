package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustmentRequest ajuste o devolución. Quantity con signo: positivo entra, negativo sale.
type StockAdjustmentRequest struct {
	ProductID  string          `json:"product_id" validate:"required"`
	VariantID  string          `json:"variant_id"`
	Type       string          `json:"type" validate:"required,oneof=adjustment return"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	BatchNo    string          `json:"batch_no" validate:"max=50"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	Reason     string          `json:"reason" validate:"required,max=255"`
}

// StockLedgerEntryResponse movimiento del libro de stock.
type StockLedgerEntryResponse struct {
	ID              string          `json:"id"`
	Type            string          `json:"transaction_type"`
	ProductID       string          `json:"product_id"`
	VariantID       string          `json:"variant_id,omitempty"`
	BatchNo         string          `json:"batch_no,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	RemainingQty    decimal.Decimal `json:"remaining_qty"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	PurchaseItemID  string          `json:"purchase_item_id,omitempty"`
	SaleItemID      string          `json:"sale_item_id,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// ReconcileResponse stock del catálogo frente a la suma del libro.
type ReconcileResponse struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id,omitempty"`
	CatalogStock decimal.Decimal `json:"catalog_stock"`
	LedgerStock  decimal.Decimal `json:"ledger_stock"`
	Drift        decimal.Decimal `json:"drift"`
	InSync       bool            `json:"in_sync"`
}
