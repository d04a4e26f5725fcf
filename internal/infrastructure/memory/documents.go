package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseRepo implementa repository.PurchaseRepository.
type PurchaseRepo struct {
	access accessFunc
}

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.access(func(st *state) error {
		for _, other := range st.purchases {
			if other.ShopID == p.ShopID && other.InvoiceNo == p.InvoiceNo {
				return domain.Duplicate("purchase", p.InvoiceNo)
			}
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		st.purchases[p.ID] = *p
		return nil
	})
}

func (r *PurchaseRepo) CreateItem(_ context.Context, item *entity.PurchaseItem) error {
	return r.access(func(st *state) error {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		st.purchaseItems = append(st.purchaseItems, *item)
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.access(func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) GetItems(_ context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	var list []entity.PurchaseItem
	err := r.access(func(st *state) error {
		for _, it := range st.purchaseItems {
			if it.PurchaseID == purchaseID {
				list = append(list, it)
			}
		}
		return nil
	})
	return pointers(list), err
}

func (r *PurchaseRepo) ListBySupplier(_ context.Context, shopID, supplierID string) ([]*entity.Purchase, error) {
	var list []entity.Purchase
	err := r.access(func(st *state) error {
		for _, p := range st.purchases {
			if p.ShopID == shopID && p.SupplierID == supplierID {
				list = append(list, p)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b entity.Purchase) int { return a.Date.Compare(b.Date) })
	return pointers(list), err
}

func (r *PurchaseRepo) SumDueBySupplier(_ context.Context, shopID, supplierID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.access(func(st *state) error {
		for _, p := range st.purchases {
			if p.ShopID == shopID && p.SupplierID == supplierID {
				sum = sum.Add(p.DueAmount)
			}
		}
		return nil
	})
	return sum, err
}

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct {
	access accessFunc
}

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.access(func(st *state) error {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *SaleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	return r.access(func(st *state) error {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		st.saleItems = append(st.saleItems, *item)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.access(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) ListByShop(_ context.Context, shopID string, limit, offset int) ([]*entity.Sale, error) {
	var list []entity.Sale
	err := r.access(func(st *state) error {
		for _, s := range st.sales {
			if s.ShopID == shopID {
				list = append(list, s)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b entity.Sale) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return pointers(page(list, limit, offset)), err
}

func (r *SaleRepo) GetItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	var list []entity.SaleItem
	err := r.access(func(st *state) error {
		for _, it := range st.saleItems {
			if it.SaleID == saleID {
				list = append(list, it)
			}
		}
		return nil
	})
	return pointers(list), err
}

func (r *SaleRepo) SumDueByCustomer(_ context.Context, shopID, customerID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.access(func(st *state) error {
		for _, s := range st.sales {
			if s.ShopID == shopID && s.CustomerID == customerID {
				sum = sum.Add(s.DueAmount)
			}
		}
		return nil
	})
	return sum, err
}

// ExpenseRepo implementa repository.ExpenseRepository.
type ExpenseRepo struct {
	access accessFunc
}

func (r *ExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	return r.access(func(st *state) error {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		st.expenses = append(st.expenses, *e)
		return nil
	})
}

func (r *ExpenseRepo) ListByShop(_ context.Context, shopID string, limit, offset int) ([]*entity.Expense, error) {
	var list []entity.Expense
	err := r.access(func(st *state) error {
		for _, e := range st.expenses {
			if e.ShopID == shopID {
				list = append(list, e)
			}
		}
		return nil
	})
	slices.SortStableFunc(list, func(a, b entity.Expense) int { return b.Date.Compare(a.Date) })
	return pointers(page(list, limit, offset)), err
}

// PaymentRepo implementa repository.PaymentRepository.
type PaymentRepo struct {
	access accessFunc
}

func (r *PaymentRepo) CreateCustomerPayment(_ context.Context, p *entity.CustomerPayment) error {
	return r.access(func(st *state) error {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		st.customerPayments = append(st.customerPayments, *p)
		return nil
	})
}

func (r *PaymentRepo) CreateSupplierPayment(_ context.Context, p *entity.SupplierPayment) error {
	return r.access(func(st *state) error {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		st.supplierPayments = append(st.supplierPayments, *p)
		return nil
	})
}

func (r *PaymentRepo) SumCustomerPayments(_ context.Context, shopID, customerID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.access(func(st *state) error {
		for _, p := range st.customerPayments {
			if p.ShopID == shopID && p.CustomerID == customerID {
				sum = sum.Add(p.Amount)
			}
		}
		return nil
	})
	return sum, err
}

func (r *PaymentRepo) SumSupplierPayments(_ context.Context, shopID, supplierID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.access(func(st *state) error {
		for _, p := range st.supplierPayments {
			if p.ShopID == shopID && p.SupplierID == supplierID {
				sum = sum.Add(p.Amount)
			}
		}
		return nil
	})
	return sum, err
}

func (r *PaymentRepo) ListSupplierPayments(_ context.Context, shopID, supplierID string) ([]*entity.SupplierPayment, error) {
	var list []entity.SupplierPayment
	err := r.access(func(st *state) error {
		for _, p := range st.supplierPayments {
			if p.ShopID == shopID && p.SupplierID == supplierID {
				list = append(list, p)
			}
		}
		return nil
	})
	slices.SortStableFunc(list, func(a, b entity.SupplierPayment) int { return a.Date.Compare(b.Date) })
	return pointers(list), err
}
