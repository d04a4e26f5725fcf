package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct {
	access accessFunc
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.access(func(st *state) error {
		for _, other := range st.products {
			if other.ShopID == p.ShopID && other.Code == p.Code {
				return domain.Duplicate("product", p.Code)
			}
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.access(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByShopAndCode(_ context.Context, shopID, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.access(func(st *state) error {
		for _, p := range st.products {
			if p.ShopID == shopID && p.Code == code {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByShopAndBarcode(_ context.Context, shopID, barcode string) (*entity.Product, error) {
	var out *entity.Product
	err := r.access(func(st *state) error {
		for _, id := range slices.Sorted(maps.Keys(st.products)) {
			p := st.products[id]
			if p.ShopID == shopID && p.Barcode != "" && strings.EqualFold(p.Barcode, barcode) {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListByShop(_ context.Context, shopID string, limit, offset int) ([]*entity.Product, error) {
	var list []entity.Product
	err := r.access(func(st *state) error {
		for _, p := range st.products {
			if p.ShopID == shopID {
				list = append(list, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b entity.Product) int { return strings.Compare(a.Title, b.Title) })
	return pointers(page(list, limit, offset)), nil
}

// GetForUpdate en memoria no necesita bloqueo de fila: la transacción ya es exclusiva.
func (r *ProductRepo) GetForUpdate(_ context.Context, shopID string, ids []string) ([]*entity.Product, error) {
	var list []entity.Product
	err := r.access(func(st *state) error {
		for _, id := range sortedUnique(ids) {
			if p, ok := st.products[id]; ok && p.ShopID == shopID {
				list = append(list, p)
			}
		}
		return nil
	})
	return pointers(list), err
}

func (r *ProductRepo) AddStock(_ context.Context, id string, delta decimal.Decimal) error {
	return r.access(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		p.Stock = p.Stock.Add(delta)
		p.UpdatedAt = time.Now().UTC()
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) UpdatePurchasedPrice(_ context.Context, id string, cost decimal.Decimal) error {
	return r.access(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		p.PurchasedPrice = cost
		p.UpdatedAt = time.Now().UTC()
		st.products[id] = p
		return nil
	})
}

// VariantRepo implementa repository.VariantRepository.
type VariantRepo struct {
	access accessFunc
}

func (r *VariantRepo) Create(_ context.Context, v *entity.ProductVariant) error {
	return r.access(func(st *state) error {
		for _, other := range st.variants {
			if other.ProductID == v.ProductID && other.VariantName == v.VariantName {
				return domain.Duplicate("product_variant", v.VariantName)
			}
		}
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		v.UpdatedAt = now
		st.variants[v.ID] = *v
		return nil
	})
}

func (r *VariantRepo) GetByID(_ context.Context, id string) (*entity.ProductVariant, error) {
	var out *entity.ProductVariant
	err := r.access(func(st *state) error {
		if v, ok := st.variants[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *VariantRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductVariant, error) {
	var list []entity.ProductVariant
	err := r.access(func(st *state) error {
		for _, v := range st.variants {
			if v.ProductID == productID {
				list = append(list, v)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b entity.ProductVariant) int { return strings.Compare(a.VariantName, b.VariantName) })
	return pointers(list), err
}

func (r *VariantRepo) GetForUpdate(_ context.Context, shopID string, ids []string) ([]*entity.ProductVariant, error) {
	var list []entity.ProductVariant
	err := r.access(func(st *state) error {
		for _, id := range sortedUnique(ids) {
			if v, ok := st.variants[id]; ok && v.ShopID == shopID {
				list = append(list, v)
			}
		}
		return nil
	})
	return pointers(list), err
}

func (r *VariantRepo) AddStock(_ context.Context, id string, delta decimal.Decimal) error {
	return r.access(func(st *state) error {
		v, ok := st.variants[id]
		if !ok {
			return fmt.Errorf("variant %s: %w", id, domain.ErrNotFound)
		}
		v.Stock = v.Stock.Add(delta)
		v.UpdatedAt = time.Now().UTC()
		st.variants[id] = v
		return nil
	})
}

func (r *VariantRepo) UpdatePurchasedPrice(_ context.Context, id string, cost decimal.Decimal) error {
	return r.access(func(st *state) error {
		v, ok := st.variants[id]
		if !ok {
			return fmt.Errorf("variant %s: %w", id, domain.ErrNotFound)
		}
		v.PurchasedPrice = cost
		v.UpdatedAt = time.Now().UTC()
		st.variants[id] = v
		return nil
	})
}

func sortedUnique(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct {
	access accessFunc
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.access(func(st *state) error {
		for _, other := range st.categories {
			if other.ShopID == c.ShopID && other.Name == c.Name {
				return domain.Duplicate("category", c.Name)
			}
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.access(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) ListByShop(_ context.Context, shopID string) ([]*entity.Category, error) {
	var list []entity.Category
	err := r.access(func(st *state) error {
		for _, c := range st.categories {
			if c.ShopID == shopID {
				list = append(list, c)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b entity.Category) int { return strings.Compare(a.Name, b.Name) })
	return pointers(list), err
}
