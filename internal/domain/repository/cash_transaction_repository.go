package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CashTransactionRepository libro de caja de solo inserción.
type CashTransactionRepository interface {
	// LockShop serializa las inserciones de la tienda hasta el fin de la transacción.
	LockShop(ctx context.Context, shopID string) error
	// Last devuelve la fila más reciente (por Seq) o nil si el libro está vacío.
	Last(ctx context.Context, shopID string) (*entity.CashTransaction, error)
	Append(ctx context.Context, tx *entity.CashTransaction) error
	// SumBalance créditos - débitos, recalculado sin usar running_balance.
	SumBalance(ctx context.Context, shopID string) (decimal.Decimal, error)
	List(ctx context.Context, shopID string, from, to *time.Time, limit, offset int) ([]*entity.CashTransaction, error)
}
