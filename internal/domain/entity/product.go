package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseUnit unidad mínima en la que se lleva el stock de un producto.
type BaseUnit string

const (
	UnitPiece BaseUnit = "piece"
	UnitKg    BaseUnit = "kg"
	UnitGram  BaseUnit = "g"
	UnitLiter BaseUnit = "liter"
	UnitMl    BaseUnit = "ml"
)

// Product producto del catálogo de una tienda. Stock está en unidades base.
// Si HasVariants es true el stock se lleva en cada ProductVariant.
type Product struct {
	ID             string
	ShopID         string
	Title          string
	Code           string // único por tienda
	CategoryID     string // opcional
	SKU            string
	Barcode        string
	BaseUnit       BaseUnit
	PurchasedPrice decimal.Decimal // costo promedio ponderado por unidad base
	RegularPrice   decimal.Decimal
	SellingPrice   decimal.Decimal // RegularPrice - Discount si no se indica
	Discount       decimal.Decimal
	Stock          decimal.Decimal
	HasVariants    bool
	VATApplicable  bool
	VATPercent     decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductVariant variante de un producto con su propio SKU y stock.
// Los precios nil heredan los del producto.
type ProductVariant struct {
	ID             string
	ShopID         string
	ProductID      string
	VariantName    string // único por producto
	SKU            string
	Barcode        string
	PurchasedPrice decimal.Decimal
	RegularPrice   *decimal.Decimal
	SellingPrice   *decimal.Decimal
	Stock          decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
