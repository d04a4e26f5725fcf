package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.VariantRepository = (*VariantRepo)(nil)
)

const productColumns = `id, shop_id, title, code, sku, barcode, base_unit, purchased_price, regular_price, selling_price,
	discount, stock, has_variants, vat_applicable, vat_percent, created_at, updated_at, category_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	err := row.Scan(&p.ID, &p.ShopID, &p.Title, &p.Code, &p.SKU, &p.Barcode, &p.BaseUnit,
		&p.PurchasedPrice, &p.RegularPrice, &p.SellingPrice, &p.Discount, &p.Stock,
		&p.HasVariants, &p.VATApplicable, &p.VATPercent, &p.CreatedAt, &p.UpdatedAt, &categoryID)
	if err != nil {
		return nil, err
	}
	p.CategoryID = deref(categoryID)
	return &p, nil
}

// Create persiste un nuevo producto. El código es único por tienda.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ShopID, p.Title, p.Code, p.SKU, p.Barcode, p.BaseUnit,
		p.PurchasedPrice, p.RegularPrice, p.SellingPrice, p.Discount, p.Stock,
		p.HasVariants, p.VATApplicable, p.VATPercent, p.CreatedAt, p.UpdatedAt, nullable(p.CategoryID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("product", p.Code)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByShopAndCode obtiene un producto por tienda y código.
func (r *ProductRepo) GetByShopAndCode(ctx context.Context, shopID, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE shop_id = $1 AND code = $2`, shopID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// GetByShopAndBarcode lector de código de barras del POS.
func (r *ProductRepo) GetByShopAndBarcode(ctx context.Context, shopID, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE shop_id = $1 AND barcode <> '' AND lower(barcode) = lower($2)
		ORDER BY id LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, shopID, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// ListByShop lista productos de la tienda por título con paginación.
func (r *ProductRepo) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE shop_id = $1 ORDER BY title, id LIMIT $2 OFFSET $3`
	return r.list(ctx, "list products", query, shopID, limit, offset)
}

// GetForUpdate bloquea las filas en orden ascendente de id para evitar interbloqueos.
func (r *ProductRepo) GetForUpdate(ctx context.Context, shopID string, ids []string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE shop_id = $1 AND id = ANY($2) ORDER BY id FOR UPDATE`
	return r.list(ctx, "lock products", query, shopID, ids)
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// AddStock suma delta (positivo o negativo) al stock. El CHECK stock >= 0 rechaza sobreventas.
func (r *ProductRepo) AddStock(ctx context.Context, id string, delta decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`, id, delta)
	if err != nil {
		if isCheckViolation(err) {
			return domain.InsufficientStock("product", id, id, decimal.Zero)
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

// UpdatePurchasedPrice actualiza solo el costo promedio (usado por las compras).
func (r *ProductRepo) UpdatePurchasedPrice(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET purchased_price = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

const variantColumns = `id, shop_id, product_id, variant_name, sku, barcode, purchased_price, regular_price, selling_price,
	stock, created_at, updated_at`

// VariantRepo implementación de VariantRepository sobre PostgreSQL.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de variantes.
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

func scanVariant(row pgx.Row) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := row.Scan(&v.ID, &v.ShopID, &v.ProductID, &v.VariantName, &v.SKU, &v.Barcode,
		&v.PurchasedPrice, &v.RegularPrice, &v.SellingPrice, &v.Stock, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VariantRepo) Create(ctx context.Context, v *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (` + variantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ShopID, v.ProductID, v.VariantName, v.SKU, v.Barcode,
		v.PurchasedPrice, v.RegularPrice, v.SellingPrice, v.Stock, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("product_variant", v.VariantName)
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.ProductVariant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE product_id = $1 ORDER BY variant_name`
	return r.list(ctx, "list variants", query, productID)
}

func (r *VariantRepo) GetForUpdate(ctx context.Context, shopID string, ids []string) ([]*entity.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE shop_id = $1 AND id = ANY($2) ORDER BY id FOR UPDATE`
	return r.list(ctx, "lock variants", query, shopID, ids)
}

func (r *VariantRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.ProductVariant, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *VariantRepo) AddStock(ctx context.Context, id string, delta decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE product_variants SET stock = stock + $2, updated_at = now() WHERE id = $1`, id, delta)
	if err != nil {
		if isCheckViolation(err) {
			return domain.InsufficientStock("product_variant", id, id, decimal.Zero)
		}
		return fmt.Errorf("update variant stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("product_variant", id)
	}
	return nil
}

func (r *VariantRepo) UpdatePurchasedPrice(ctx context.Context, id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE product_variants SET purchased_price = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update variant cost: %w", err)
	}
	return nil
}
