package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// CustomerRepo implementa repository.CustomerRepository.
type CustomerRepo struct {
	access accessFunc
}

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.access(func(st *state) error {
		for _, other := range st.customers {
			if other.ShopID == c.ShopID && other.Phone == c.Phone {
				return domain.Duplicate("customer", c.Phone)
			}
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.access(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetByShopAndPhone(_ context.Context, shopID, phone string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.access(func(st *state) error {
		out = findByPhone(st, shopID, phone)
		return nil
	})
	return out, err
}

// GetOrCreateForUpdate la transacción en memoria ya es exclusiva: buscar e insertar basta.
func (r *CustomerRepo) GetOrCreateForUpdate(_ context.Context, c *entity.Customer) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.access(func(st *state) error {
		if out = findByPhone(st, c.ShopID, c.Phone); out != nil {
			return nil
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		c.CreatedAt, c.UpdatedAt = now, now
		st.customers[c.ID] = *c
		cp := *c
		out = &cp
		return nil
	})
	return out, err
}

func (r *CustomerRepo) ListByShop(_ context.Context, shopID, search string, limit, offset int) ([]*entity.Customer, error) {
	var list []entity.Customer
	search = strings.ToLower(search)
	err := r.access(func(st *state) error {
		for _, c := range st.customers {
			if c.ShopID != shopID {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.Phone, search) {
				continue
			}
			list = append(list, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b entity.Customer) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return pointers(page(list, limit, offset)), nil
}

func findByPhone(st *state, shopID, phone string) *entity.Customer {
	for _, c := range st.customers {
		if c.ShopID == shopID && c.Phone == phone {
			return &c
		}
	}
	return nil
}

func (r *CustomerRepo) UpdateName(_ context.Context, id, name string) error {
	return r.update(id, func(c *entity.Customer) { c.Name = name })
}

func (r *CustomerRepo) UpdatePoints(_ context.Context, id string, points int64) error {
	return r.update(id, func(c *entity.Customer) { c.Points = points })
}

func (r *CustomerRepo) update(id string, mut func(c *entity.Customer)) error {
	return r.access(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
		}
		mut(&c)
		c.UpdatedAt = time.Now().UTC()
		st.customers[id] = c
		return nil
	})
}

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct {
	access accessFunc
}

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.access(func(st *state) error {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.access(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) ListByShop(_ context.Context, shopID string, limit, offset int) ([]*entity.Supplier, error) {
	var list []entity.Supplier
	err := r.access(func(st *state) error {
		for _, s := range st.suppliers {
			if s.ShopID == shopID {
				list = append(list, s)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b entity.Supplier) int { return strings.Compare(a.Name, b.Name) })
	return pointers(page(list, limit, offset)), err
}
