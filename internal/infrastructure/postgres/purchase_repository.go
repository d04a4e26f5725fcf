package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, shop_id, supplier_id, invoice_no, date, subtotal, discount, total, paid_amount, due_amount,
	payment_method, remarks, created_by, created_at`

// PurchaseRepo compras y líneas de compra sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera. invoice_no es único por tienda.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ShopID, p.SupplierID, p.InvoiceNo, p.Date, p.Subtotal, p.Discount, p.Total,
		p.PaidAmount, p.DueAmount, p.PaymentMethod, p.Remarks, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("purchase", p.InvoiceNo)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de compra.
func (r *PurchaseRepo) CreateItem(ctx context.Context, it *entity.PurchaseItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_items (id, purchase_id, shop_id, product_id, variant_id, pack_unit, pack_size, qty_packs,
			price_per_pack, total_base_qty, cost_per_base_unit, total, batch_no, expiry_date, mrp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.PurchaseID, it.ShopID, it.ProductID, nullable(it.VariantID), it.PackUnit, it.PackSize, it.QtyPacks,
		it.PricePerPack, it.TotalBaseQty, it.CostPerBaseUnit, it.Total, it.BatchNo, it.ExpiryDate, it.MRP,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.ShopID, &p.SupplierID, &p.InvoiceNo, &p.Date, &p.Subtotal, &p.Discount, &p.Total,
		&p.PaidAmount, &p.DueAmount, &p.PaymentMethod, &p.Remarks, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene la cabecera de una compra.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// GetItems líneas de la compra en orden de inserción.
func (r *PurchaseRepo) GetItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, shop_id, product_id, variant_id, pack_unit, pack_size, qty_packs,
			price_per_pack, total_base_qty, cost_per_base_unit, total, batch_no, expiry_date, mrp
		FROM purchase_items WHERE purchase_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		var variantID *string
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ShopID, &it.ProductID, &variantID, &it.PackUnit, &it.PackSize,
			&it.QtyPacks, &it.PricePerPack, &it.TotalBaseQty, &it.CostPerBaseUnit, &it.Total, &it.BatchNo,
			&it.ExpiryDate, &it.MRP); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		it.VariantID = deref(variantID)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListBySupplier compras del proveedor por fecha.
func (r *PurchaseRepo) ListBySupplier(ctx context.Context, shopID, supplierID string) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE shop_id = $1 AND supplier_id = $2 ORDER BY date, created_at`
	rows, err := r.q.Query(ctx, query, shopID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SumDueBySupplier Σ due_amount de las compras del proveedor.
func (r *PurchaseRepo) SumDueBySupplier(ctx context.Context, shopID, supplierID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(due_amount), 0) FROM purchases WHERE shop_id = $1 AND supplier_id = $2`,
		shopID, supplierID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum purchase due: %w", err)
	}
	return sum, nil
}
