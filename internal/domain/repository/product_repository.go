package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByShopAndCode(ctx context.Context, shopID, code string) (*entity.Product, error)
	// GetByShopAndBarcode compara sin distinguir mayúsculas; un barcode vacío nunca coincide.
	GetByShopAndBarcode(ctx context.Context, shopID, barcode string) (*entity.Product, error)
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Product, error)
	// GetForUpdate bloquea las filas de la tienda (SELECT FOR UPDATE) en orden ascendente de id.
	// Los ids de otra tienda no se devuelven ni se bloquean.
	GetForUpdate(ctx context.Context, shopID string, ids []string) ([]*entity.Product, error)
	AddStock(ctx context.Context, id string, delta decimal.Decimal) error
	UpdatePurchasedPrice(ctx context.Context, id string, cost decimal.Decimal) error
}

// VariantRepository puerto de persistencia para ProductVariant.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.ProductVariant) error
	GetByID(ctx context.Context, id string) (*entity.ProductVariant, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductVariant, error)
	GetForUpdate(ctx context.Context, shopID string, ids []string) ([]*entity.ProductVariant, error)
	AddStock(ctx context.Context, id string, delta decimal.Decimal) error
	UpdatePurchasedPrice(ctx context.Context, id string, cost decimal.Decimal) error
}

// CategoryRepository puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ListByShop(ctx context.Context, shopID string) ([]*entity.Category, error)
}
