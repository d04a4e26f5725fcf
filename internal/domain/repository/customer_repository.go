package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetByShopAndPhone devuelve (nil, nil) si no existe.
	GetByShopAndPhone(ctx context.Context, shopID, phone string) (*entity.Customer, error)
	// GetOrCreateForUpdate inserta el cliente si su teléfono no existe en la tienda y bloquea
	// la fila hasta el fin de la transacción. Devuelve la fila existente o la recién creada.
	GetOrCreateForUpdate(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	// ListByShop ordena por nombre; search filtra por nombre o teléfono (vacío = todos).
	ListByShop(ctx context.Context, shopID, search string, limit, offset int) ([]*entity.Customer, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdatePoints(ctx context.Context, id string, points int64) error
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Supplier, error)
}
