package entity

import "time"

// Customer cliente de una tienda, identificado por teléfono. Points es el saldo de fidelidad.
type Customer struct {
	ID        string
	ShopID    string
	Name      string
	Phone     string // único por tienda
	Points    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
