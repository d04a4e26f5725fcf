package entity

import "time"

// Category agrupación de productos de una tienda. El nombre es único por tienda.
type Category struct {
	ID        string
	ShopID    string
	Name      string
	CreatedAt time.Time
}
