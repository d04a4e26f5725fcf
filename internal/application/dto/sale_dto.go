package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleCustomerRequest cliente por teléfono; se crea si no existe en la tienda.
type SaleCustomerRequest struct {
	Name  string `json:"name" validate:"max=100"`
	Phone string `json:"phone" validate:"required,max=20"`
}

// SaleItemRequest línea de venta. Price nil = precio de venta del catálogo.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	VariantID string           `json:"variant_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Unit      string           `json:"unit" validate:"max=20"`
	Price     *decimal.Decimal `json:"price"`
}

// SalePaymentRequest medio de pago y monto entregado.
type SalePaymentRequest struct {
	Method     string          `json:"method" validate:"omitempty,oneof=cash mobile card bank due other"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	TrxID      string          `json:"trx_id" validate:"max=100"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Customer       *SaleCustomerRequest `json:"customer_data"`
	Items          []SaleItemRequest    `json:"items" validate:"required,min=1,dive"`
	Discount       decimal.Decimal      `json:"discount"`
	Payment        SalePaymentRequest   `json:"payment"`
	RedeemedPoints int64                `json:"redeemed_points" validate:"min=0"`
}

// SaleItemResponse línea vendida.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	VATAmount decimal.Decimal `json:"vat_amount"`
}

// SaleResponse venta confirmada.
type SaleResponse struct {
	ID             string             `json:"id"`
	ShopID         string             `json:"shop_id"`
	CustomerID     string             `json:"customer_id,omitempty"`
	CustomerPoints *int64             `json:"customer_points,omitempty"`
	Date           time.Time          `json:"date"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Discount       decimal.Decimal    `json:"discount"`
	VATAmount      decimal.Decimal    `json:"vat_amount"`
	Total          decimal.Decimal    `json:"total"`
	PaymentMethod  string             `json:"payment_method"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	DueAmount      decimal.Decimal    `json:"due_amount"`
	RedeemedPoints int64              `json:"redeemed_points"`
	EarnedPoints   int64              `json:"earned_points"`
	TrxID          string             `json:"trx_id,omitempty"`
	Items          []SaleItemResponse `json:"items,omitempty"`
}
