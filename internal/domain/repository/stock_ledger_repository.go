package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BatchCursor posición de paginación por (expiry_date, transaction_date, id).
// ExpiryDate nil ordena al final (lotes sin vencimiento).
type BatchCursor struct {
	ExpiryDate      *time.Time
	TransactionDate time.Time
	ID              string
}

// StockLedgerRepository libro de stock de solo inserción: no hay update ni delete.
type StockLedgerRepository interface {
	Append(ctx context.Context, entry *entity.StockLedgerEntry) error
	// ListBatches lotes de entrada con remaining_qty > 0 en orden FIFO por vencimiento,
	// posteriores a after (nil = desde el principio).
	ListBatches(ctx context.Context, shopID string, target entity.StockTarget, after *BatchCursor, limit int) ([]*entity.StockLedgerEntry, error)
	ListByTarget(ctx context.Context, shopID string, target entity.StockTarget, limit, offset int) ([]*entity.StockLedgerEntry, error)
	SumQuantity(ctx context.Context, shopID string, target entity.StockTarget) (decimal.Decimal, error)
}
