package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.CashTransactionRepository = (*CashTransactionRepo)(nil)

const cashColumns = `id, shop_id, seq, date, transaction_type, source, amount, running_balance, payment_method,
	description, reference_no, bank_name, reference_type, reference_id, is_manual, created_by, created_at`

// CashTransactionRepo libro de caja sobre PostgreSQL. Solo INSERT y SELECT.
type CashTransactionRepo struct {
	q Querier
}

// NewCashTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashTransactionRepository(q Querier) *CashTransactionRepo {
	return &CashTransactionRepo{q: q}
}

// LockShop toma un advisory lock de transacción por tienda; se libera en Commit/Rollback.
// Fuera de una transacción no tiene efecto útil.
func (r *CashTransactionRepo) LockShop(ctx context.Context, shopID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('cash:' || $1))`, shopID); err != nil {
		return fmt.Errorf("lock cash ledger: %w", err)
	}
	return nil
}

// Last fila con mayor seq de la tienda, o nil si no hay filas.
func (r *CashTransactionRepo) Last(ctx context.Context, shopID string) (*entity.CashTransaction, error) {
	query := `SELECT ` + cashColumns + ` FROM cash_transactions WHERE shop_id = $1 ORDER BY seq DESC LIMIT 1`
	t, err := scanCash(r.q.QueryRow(ctx, query, shopID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last cash transaction: %w", err)
	}
	return t, nil
}

// Append inserta con seq = max(seq) + 1 de la tienda. Requiere LockShop en la misma transacción.
func (r *CashTransactionRepo) Append(ctx context.Context, t *entity.CashTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO cash_transactions (` + cashColumns + `)
		VALUES ($1, $2, (SELECT COALESCE(MAX(seq), 0) + 1 FROM cash_transactions WHERE shop_id = $2),
			$3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		t.ID, t.ShopID, t.Date, t.Type, t.Source, t.Amount, t.RunningBalance, t.PaymentMethod,
		t.Description, t.ReferenceNo, t.BankName, t.ReferenceType, nullable(t.ReferenceID), t.IsManual, t.CreatedBy, t.CreatedAt,
	).Scan(&t.Seq)
	if err != nil {
		return fmt.Errorf("insert cash transaction: %w", err)
	}
	return nil
}

// SumBalance Σ créditos - Σ débitos.
func (r *CashTransactionRepo) SumBalance(ctx context.Context, shopID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN transaction_type = 'credit' THEN amount ELSE -amount END), 0)
		FROM cash_transactions WHERE shop_id = $1`, shopID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum cash balance: %w", err)
	}
	return sum, nil
}

// List filas en orden de inserción, opcionalmente acotadas por fecha [from, to].
func (r *CashTransactionRepo) List(ctx context.Context, shopID string, from, to *time.Time, limit, offset int) ([]*entity.CashTransaction, error) {
	query := `
		SELECT ` + cashColumns + `
		FROM cash_transactions
		WHERE shop_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY seq
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, shopID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashTransaction
	for rows.Next() {
		t, err := scanCash(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanCash(row pgx.Row) (*entity.CashTransaction, error) {
	var t entity.CashTransaction
	var referenceID *string
	err := row.Scan(&t.ID, &t.ShopID, &t.Seq, &t.Date, &t.Type, &t.Source, &t.Amount, &t.RunningBalance, &t.PaymentMethod,
		&t.Description, &t.ReferenceNo, &t.BankName, &t.ReferenceType, &referenceID, &t.IsManual, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.ReferenceID = deref(referenceID)
	return &t, nil
}
