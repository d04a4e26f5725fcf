package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

const ledgerColumns = `id, shop_id, transaction_type, product_id, variant_id, batch_no, expiry_date, quantity, remaining_qty,
	unit_cost, purchase_item_id, sale_item_id, reference, transaction_date, created_by, created_at`

// Misma condición de destino en todas las consultas: variant_id NULL para productos sin variantes.
const ledgerTarget = `shop_id = $1 AND product_id = $2 AND variant_id IS NOT DISTINCT FROM $3`

// StockLedgerRepo libro de stock sobre PostgreSQL. Solo INSERT y SELECT.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

func (r *StockLedgerRepo) Append(ctx context.Context, e *entity.StockLedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.TransactionDate.IsZero() {
		e.TransactionDate = e.CreatedAt
	}
	query := `
		INSERT INTO stock_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ShopID, e.Type, e.ProductID, nullable(e.VariantID), e.BatchNo, e.ExpiryDate, e.Quantity, e.RemainingQty,
		e.UnitCost, nullable(e.PurchaseItemID), nullable(e.SaleItemID), e.Reference, e.TransactionDate, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock ledger: %w", err)
	}
	return nil
}

// ListBatches lotes con saldo en orden FIFO por vencimiento. Los lotes sin vencimiento
// se comparan como 'infinity' para que el cursor funcione igual que el ORDER BY.
func (r *StockLedgerRepo) ListBatches(ctx context.Context, shopID string, target entity.StockTarget, after *repository.BatchCursor, limit int) ([]*entity.StockLedgerEntry, error) {
	var (
		hasCursor bool
		expiry    *time.Time
		txDate    time.Time
		lastID    string
	)
	if after != nil {
		hasCursor = true
		expiry, txDate, lastID = after.ExpiryDate, after.TransactionDate, after.ID
	}
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger
		WHERE ` + ledgerTarget + `
		  AND quantity > 0 AND remaining_qty > 0
		  AND (NOT $4::boolean OR (COALESCE(expiry_date, 'infinity'::timestamptz), transaction_date, id)
		       > (COALESCE($5::timestamptz, 'infinity'::timestamptz), $6::timestamptz, $7::text))
		ORDER BY COALESCE(expiry_date, 'infinity'::timestamptz), transaction_date, id
		LIMIT $8`
	return r.list(ctx, "list batches", query,
		shopID, target.ProductID, nullable(target.VariantID), hasCursor, expiry, txDate, lastID, limit)
}

// ListByTarget historial del destino, más reciente primero.
func (r *StockLedgerRepo) ListByTarget(ctx context.Context, shopID string, target entity.StockTarget, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger
		WHERE ` + ledgerTarget + `
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	return r.list(ctx, "list stock ledger", query, shopID, target.ProductID, nullable(target.VariantID), limit, offset)
}

// SumQuantity Σ quantity del destino; debe coincidir con el stock del catálogo.
func (r *StockLedgerRepo) SumQuantity(ctx context.Context, shopID string, target entity.StockTarget) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM stock_ledger WHERE `+ledgerTarget,
		shopID, target.ProductID, nullable(target.VariantID),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock ledger: %w", err)
	}
	return sum, nil
}

func (r *StockLedgerRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.StockLedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.StockLedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock ledger: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*entity.StockLedgerEntry, error) {
	var e entity.StockLedgerEntry
	var variantID, purchaseItemID, saleItemID *string
	err := row.Scan(&e.ID, &e.ShopID, &e.Type, &e.ProductID, &variantID, &e.BatchNo, &e.ExpiryDate, &e.Quantity,
		&e.RemainingQty, &e.UnitCost, &purchaseItemID, &saleItemID, &e.Reference, &e.TransactionDate, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.VariantID = deref(variantID)
	e.PurchaseItemID = deref(purchaseItemID)
	e.SaleItemID = deref(saleItemID)
	return &e, nil
}
