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
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

const customerColumns = `id, shop_id, name, phone, points, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente. El teléfono es único por tienda.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	query := `
		INSERT INTO customers (id, shop_id, name, phone, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, c.ID, c.ShopID, c.Name, c.Phone, c.Points, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate("customer", c.Phone)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.get(ctx, "get customer", query, id)
}

// GetByShopAndPhone busca por teléfono dentro de la tienda.
func (r *CustomerRepo) GetByShopAndPhone(ctx context.Context, shopID, phone string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE shop_id = $1 AND phone = $2`
	return r.get(ctx, "get customer by phone", query, shopID, phone)
}

// GetOrCreateForUpdate INSERT ... ON CONFLICT DO NOTHING y luego SELECT FOR UPDATE.
// Si otra transacción inserta el mismo teléfono a la vez, el INSERT espera su commit y
// el SELECT devuelve esa fila en lugar de fallar por duplicado.
func (r *CustomerRepo) GetOrCreateForUpdate(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	insert := `
		INSERT INTO customers (id, shop_id, name, phone, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (shop_id, phone) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, c.ID, c.ShopID, c.Name, c.Phone, c.Points, now); err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE shop_id = $1 AND phone = $2 FOR UPDATE`
	got, err := r.get(ctx, "lock customer", query, c.ShopID, c.Phone)
	if err != nil {
		return nil, err
	}
	if got == nil {
		return nil, fmt.Errorf("lock customer %s: %w", c.Phone, domain.ErrNotFound)
	}
	return got, nil
}

// ListByShop lista clientes por nombre; search coincide con nombre o teléfono.
func (r *CustomerRepo) ListByShop(ctx context.Context, shopID, search string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + ` FROM customers
		WHERE shop_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR phone LIKE '%' || $2 || '%')
		ORDER BY name, id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, shopID, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.ShopID, &c.Name, &c.Phone, &c.Points, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CustomerRepo) get(ctx context.Context, op, query string, args ...any) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.ShopID, &c.Name, &c.Phone, &c.Points, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// UpdateName actualiza el nombre (la venta trae el nombre más reciente del cliente).
func (r *CustomerRepo) UpdateName(ctx context.Context, id, name string) error {
	_, err := r.q.Exec(ctx, `UPDATE customers SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("update customer name: %w", err)
	}
	return nil
}

// UpdatePoints fija el saldo de puntos calculado por la venta.
func (r *CustomerRepo) UpdatePoints(ctx context.Context, id string, points int64) error {
	_, err := r.q.Exec(ctx, `UPDATE customers SET points = $2, updated_at = now() WHERE id = $1`, id, points)
	if err != nil {
		return fmt.Errorf("update customer points: %w", err)
	}
	return nil
}

// SupplierRepo implementación de SupplierRepository.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO suppliers (id, shop_id, name, phone, address, opening_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, s.ID, s.ShopID, s.Name, s.Phone, s.Address, s.OpeningBalance, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `SELECT id, shop_id, name, phone, address, opening_balance, created_at FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.ShopID, &s.Name, &s.Phone, &s.Address, &s.OpeningBalance, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT id, shop_id, name, phone, address, opening_balance, created_at
		FROM suppliers WHERE shop_id = $1 ORDER BY name, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.ShopID, &s.Name, &s.Phone, &s.Address, &s.OpeningBalance, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
