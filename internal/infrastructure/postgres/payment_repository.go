package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo abonos de clientes y pagos a proveedores.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) CreateCustomerPayment(ctx context.Context, p *entity.CustomerPayment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO customer_payments (id, shop_id, customer_id, date, memo_no, amount, payment_method, remarks, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ShopID, p.CustomerID, p.Date, p.MemoNo, p.Amount, p.PaymentMethod, p.Remarks, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) CreateSupplierPayment(ctx context.Context, p *entity.SupplierPayment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO supplier_payments (id, shop_id, supplier_id, date, memo_no, amount, payment_method, remarks, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ShopID, p.SupplierID, p.Date, p.MemoNo, p.Amount, p.PaymentMethod, p.Remarks, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) SumCustomerPayments(ctx context.Context, shopID, customerID string) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM customer_payments WHERE shop_id = $1 AND customer_id = $2`, shopID, customerID)
}

func (r *PaymentRepo) SumSupplierPayments(ctx context.Context, shopID, supplierID string) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM supplier_payments WHERE shop_id = $1 AND supplier_id = $2`, shopID, supplierID)
}

func (r *PaymentRepo) sum(ctx context.Context, query, shopID, partyID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, shopID, partyID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// ListSupplierPayments pagos al proveedor por fecha.
func (r *PaymentRepo) ListSupplierPayments(ctx context.Context, shopID, supplierID string) ([]*entity.SupplierPayment, error) {
	query := `
		SELECT id, shop_id, supplier_id, date, memo_no, amount, payment_method, remarks, created_by, created_at
		FROM supplier_payments WHERE shop_id = $1 AND supplier_id = $2 ORDER BY date, created_at`
	rows, err := r.q.Query(ctx, query, shopID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list supplier payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierPayment
	for rows.Next() {
		var p entity.SupplierPayment
		if err := rows.Scan(&p.ID, &p.ShopID, &p.SupplierID, &p.Date, &p.MemoNo, &p.Amount,
			&p.PaymentMethod, &p.Remarks, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
