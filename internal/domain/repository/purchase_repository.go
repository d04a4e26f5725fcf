package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseRepository puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateItem(ctx context.Context, item *entity.PurchaseItem) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error)
	ListBySupplier(ctx context.Context, shopID, supplierID string) ([]*entity.Purchase, error)
	SumDueBySupplier(ctx context.Context, shopID, supplierID string) (decimal.Decimal, error)
}

// SaleRepository puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	// ListByShop ventas más recientes primero, sin líneas.
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Sale, error)
	SumDueByCustomer(ctx context.Context, shopID, customerID string) (decimal.Decimal, error)
}

// ExpenseRepository puerto de persistencia para gastos.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Expense, error)
}
