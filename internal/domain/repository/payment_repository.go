package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentRepository puerto de persistencia para abonos de clientes y pagos a proveedores.
type PaymentRepository interface {
	CreateCustomerPayment(ctx context.Context, p *entity.CustomerPayment) error
	CreateSupplierPayment(ctx context.Context, p *entity.SupplierPayment) error
	SumCustomerPayments(ctx context.Context, shopID, customerID string) (decimal.Decimal, error)
	SumSupplierPayments(ctx context.Context, shopID, supplierID string) (decimal.Decimal, error)
	ListSupplierPayments(ctx context.Context, shopID, supplierID string) ([]*entity.SupplierPayment, error)
}
