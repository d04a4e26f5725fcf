package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier proveedor de una tienda. OpeningBalance es la deuda previa al sistema.
type Supplier struct {
	ID             string
	ShopID         string
	Name           string
	Phone          string
	Address        string
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
}
