package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de compra en paquetes.
type PurchaseItemRequest struct {
	ProductID    string           `json:"product_id" validate:"required"`
	VariantID    string           `json:"variant_id"`
	PackUnit     string           `json:"pack_unit" validate:"max=30"`
	PackSize     decimal.Decimal  `json:"pack_size"`
	QtyPacks     decimal.Decimal  `json:"qty_packs"`
	PricePerPack decimal.Decimal  `json:"price_per_pack"`
	BatchNo      string           `json:"batch_no" validate:"max=50"`
	ExpiryDate   *time.Time       `json:"expiry_date"`
	MRP          *decimal.Decimal `json:"mrp"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID    string                `json:"supplier_id" validate:"required"`
	InvoiceNo     string                `json:"invoice_no" validate:"required,max=50"`
	Date          *time.Time            `json:"date"`
	Discount      decimal.Decimal       `json:"discount"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	PaymentMethod string                `json:"payment_method" validate:"omitempty,oneof=cash bank mobile card due other"`
	Remarks       string                `json:"remarks"`
	Items         []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseItemResponse línea con los campos derivados.
type PurchaseItemResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	VariantID       string           `json:"variant_id,omitempty"`
	PackUnit        string           `json:"pack_unit"`
	PackSize        decimal.Decimal  `json:"pack_size"`
	QtyPacks        decimal.Decimal  `json:"qty_packs"`
	PricePerPack    decimal.Decimal  `json:"price_per_pack"`
	TotalBaseQty    decimal.Decimal  `json:"total_base_qty"`
	CostPerBaseUnit decimal.Decimal  `json:"cost_per_base_unit"`
	Total           decimal.Decimal  `json:"total"`
	BatchNo         string           `json:"batch_no,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	MRP             *decimal.Decimal `json:"mrp,omitempty"`
}

// PurchaseResponse compra confirmada.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	ShopID        string                 `json:"shop_id"`
	SupplierID    string                 `json:"supplier_id"`
	InvoiceNo     string                 `json:"invoice_no"`
	Date          time.Time              `json:"date"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Discount      decimal.Decimal        `json:"discount"`
	Total         decimal.Decimal        `json:"total"`
	PaidAmount    decimal.Decimal        `json:"paid_amount"`
	DueAmount     decimal.Decimal        `json:"due_amount"`
	PaymentMethod string                 `json:"payment_method"`
	Remarks       string                 `json:"remarks,omitempty"`
	Items         []PurchaseItemResponse `json:"items"`
}
