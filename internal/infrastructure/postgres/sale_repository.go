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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, shop_id, customer_id, date, subtotal, discount, vat_amount, total, payment_method,
	paid_amount, due_amount, redeemed_points, earned_points, trx_id, created_by, created_at`

// SaleRepo ventas y líneas de venta sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ShopID, nullable(s.CustomerID), s.Date, s.Subtotal, s.Discount, s.VATAmount, s.Total,
		s.PaymentMethod, s.PaidAmount, s.DueAmount, s.RedeemedPoints, s.EarnedPoints, s.TrxID, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, shop_id, product_id, variant_id, quantity, unit, price, total,
			vat_applicable, vat_percent, vat_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SaleID, it.ShopID, it.ProductID, nullable(it.VariantID), it.Quantity, it.Unit, it.Price, it.Total,
		it.VATApplicable, it.VATPercent, it.VATAmount,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID *string
	err := row.Scan(
		&s.ID, &s.ShopID, &customerID, &s.Date, &s.Subtotal, &s.Discount, &s.VATAmount, &s.Total,
		&s.PaymentMethod, &s.PaidAmount, &s.DueAmount, &s.RedeemedPoints, &s.EarnedPoints, &s.TrxID, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CustomerID = deref(customerID)
	return &s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ListByShop ventas más recientes primero, sin líneas.
func (r *SaleRepo) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE shop_id = $1
		ORDER BY date DESC, created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, shop_id, product_id, variant_id, quantity, unit, price, total,
			vat_applicable, vat_percent, vat_amount
		FROM sale_items WHERE sale_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		var variantID *string
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ShopID, &it.ProductID, &variantID, &it.Quantity, &it.Unit,
			&it.Price, &it.Total, &it.VATApplicable, &it.VATPercent, &it.VATAmount); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.VariantID = deref(variantID)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// SumDueByCustomer Σ due_amount de las ventas a crédito del cliente.
func (r *SaleRepo) SumDueByCustomer(ctx context.Context, shopID, customerID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(due_amount), 0) FROM sales WHERE shop_id = $1 AND customer_id = $2`,
		shopID, customerID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum sale due: %w", err)
	}
	return sum, nil
}
