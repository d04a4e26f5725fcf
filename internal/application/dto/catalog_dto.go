package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Title          string           `json:"title" validate:"required,max=200"`
	Code           string           `json:"code" validate:"required,max=50"`
	CategoryID     string           `json:"category_id"`
	SKU            string           `json:"sku" validate:"max=50"`
	Barcode        string           `json:"barcode" validate:"max=64"`
	BaseUnit       string           `json:"base_unit" validate:"omitempty,oneof=piece kg g liter ml"`
	PurchasedPrice decimal.Decimal  `json:"purchased_price"`
	RegularPrice   decimal.Decimal  `json:"regular_price"`
	SellingPrice   *decimal.Decimal `json:"selling_price"`
	Discount       decimal.Decimal  `json:"discount"`
	OpeningStock   decimal.Decimal  `json:"opening_stock"`
	HasVariants    bool             `json:"has_variants"`
	VATApplicable  bool             `json:"vat_applicable"`
	VATPercent     decimal.Decimal  `json:"vat_percent"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string            `json:"id"`
	ShopID         string            `json:"shop_id"`
	Title          string            `json:"title"`
	Code           string            `json:"code"`
	CategoryID     string            `json:"category_id,omitempty"`
	SKU            string            `json:"sku,omitempty"`
	Barcode        string            `json:"barcode,omitempty"`
	BaseUnit       string            `json:"base_unit"`
	PurchasedPrice decimal.Decimal   `json:"purchased_price"`
	RegularPrice   decimal.Decimal   `json:"regular_price"`
	SellingPrice   decimal.Decimal   `json:"selling_price"`
	Discount       decimal.Decimal   `json:"discount"`
	Stock          decimal.Decimal   `json:"stock"`
	HasVariants    bool              `json:"has_variants"`
	VATApplicable  bool              `json:"vat_applicable"`
	VATPercent     decimal.Decimal   `json:"vat_percent"`
	Variants       []VariantResponse `json:"variants,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateVariantRequest entrada para crear una variante.
type CreateVariantRequest struct {
	VariantName  string           `json:"variant_name" validate:"required,max=100"`
	SKU          string           `json:"sku" validate:"max=50"`
	Barcode      string           `json:"barcode" validate:"max=64"`
	RegularPrice *decimal.Decimal `json:"regular_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	OpeningStock decimal.Decimal  `json:"opening_stock"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	VariantName    string           `json:"variant_name"`
	SKU            string           `json:"sku,omitempty"`
	Barcode        string           `json:"barcode,omitempty"`
	PurchasedPrice decimal.Decimal  `json:"purchased_price"`
	RegularPrice   *decimal.Decimal `json:"regular_price,omitempty"`
	SellingPrice   *decimal.Decimal `json:"selling_price,omitempty"`
	Stock          decimal.Decimal  `json:"stock"`
}

// StockTargetQuery identifica un producto o una variante.
type StockTargetQuery struct {
	ProductID string `query:"product_id" validate:"required"`
	VariantID string `query:"variant_id"`
}

// StockLevelResponse stock actual en unidades base.
type StockLevelResponse struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	BaseUnit  string          `json:"base_unit"`
	Stock     decimal.Decimal `json:"stock"`
}

// CreateCategoryRequest alta de categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryResponse categoría de producto.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductLookupQuery código o código de barras leído en el POS.
type ProductLookupQuery struct {
	Code string `query:"code" validate:"required,max=64"`
}
