package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/domain/cash"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockLedgerRepo implementa repository.StockLedgerRepository. Solo inserción.
type StockLedgerRepo struct {
	access accessFunc
}

func (r *StockLedgerRepo) Append(_ context.Context, e *entity.StockLedgerEntry) error {
	return r.access(func(st *state) error {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		if e.TransactionDate.IsZero() {
			e.TransactionDate = e.CreatedAt
		}
		st.stockLedger = append(st.stockLedger, *e)
		return nil
	})
}

func (r *StockLedgerRepo) ListBatches(_ context.Context, shopID string, target entity.StockTarget, after *repository.BatchCursor, limit int) ([]*entity.StockLedgerEntry, error) {
	var list []entity.StockLedgerEntry
	err := r.access(func(st *state) error {
		for _, e := range st.stockLedger {
			if e.ShopID != shopID || !sameTarget(e, target) {
				continue
			}
			if !e.Quantity.IsPositive() || !e.RemainingQty.IsPositive() {
				continue
			}
			if after != nil && compareBatch(cursorOf(e), *after) <= 0 {
				continue
			}
			list = append(list, e)
		}
		return nil
	})
	slices.SortFunc(list, func(a, b entity.StockLedgerEntry) int {
		return compareBatch(cursorOf(a), cursorOf(b))
	})
	return pointers(page(list, limit, 0)), err
}

func (r *StockLedgerRepo) ListByTarget(_ context.Context, shopID string, target entity.StockTarget, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	var list []entity.StockLedgerEntry
	err := r.access(func(st *state) error {
		for i := len(st.stockLedger) - 1; i >= 0; i-- {
			e := st.stockLedger[i]
			if e.ShopID == shopID && sameTarget(e, target) {
				list = append(list, e)
			}
		}
		return nil
	})
	return pointers(page(list, limit, offset)), err
}

func (r *StockLedgerRepo) SumQuantity(_ context.Context, shopID string, target entity.StockTarget) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.access(func(st *state) error {
		for _, e := range st.stockLedger {
			if e.ShopID == shopID && sameTarget(e, target) {
				sum = sum.Add(e.Quantity)
			}
		}
		return nil
	})
	return sum, err
}

func sameTarget(e entity.StockLedgerEntry, t entity.StockTarget) bool {
	return e.ProductID == t.ProductID && e.VariantID == t.VariantID
}

func cursorOf(e entity.StockLedgerEntry) repository.BatchCursor {
	return repository.BatchCursor{ExpiryDate: e.ExpiryDate, TransactionDate: e.TransactionDate, ID: e.ID}
}

// compareBatch orden FIFO: vencimiento ascendente (sin vencimiento al final), fecha, id.
func compareBatch(a, b repository.BatchCursor) int {
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate != nil:
		return 1
	case a.ExpiryDate != nil && b.ExpiryDate == nil:
		return -1
	case a.ExpiryDate != nil && b.ExpiryDate != nil:
		if c := a.ExpiryDate.Compare(*b.ExpiryDate); c != 0 {
			return c
		}
	}
	if c := a.TransactionDate.Compare(b.TransactionDate); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// CashTransactionRepo implementa repository.CashTransactionRepository. Solo inserción.
type CashTransactionRepo struct {
	access accessFunc
}

// LockShop no hace nada: TxRunner ya serializa todas las unidades de trabajo.
func (r *CashTransactionRepo) LockShop(context.Context, string) error {
	return nil
}

func (r *CashTransactionRepo) Last(_ context.Context, shopID string) (*entity.CashTransaction, error) {
	var out *entity.CashTransaction
	err := r.access(func(st *state) error {
		for i := len(st.cash) - 1; i >= 0; i-- {
			if st.cash[i].ShopID == shopID {
				t := st.cash[i]
				out = &t
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CashTransactionRepo) Append(_ context.Context, t *entity.CashTransaction) error {
	return r.access(func(st *state) error {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}
		st.cashSeq[t.ShopID]++
		t.Seq = st.cashSeq[t.ShopID]
		st.cash = append(st.cash, *t)
		return nil
	})
}

func (r *CashTransactionRepo) SumBalance(_ context.Context, shopID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.access(func(st *state) error {
		for _, t := range st.cash {
			if t.ShopID == shopID {
				sum = sum.Add(cash.Signed(t.Type, t.Amount))
			}
		}
		return nil
	})
	return sum, err
}

func (r *CashTransactionRepo) List(_ context.Context, shopID string, from, to *time.Time, limit, offset int) ([]*entity.CashTransaction, error) {
	var list []entity.CashTransaction
	err := r.access(func(st *state) error {
		for _, t := range st.cash {
			if t.ShopID != shopID {
				continue
			}
			if from != nil && t.Date.Before(*from) {
				continue
			}
			if to != nil && t.Date.After(*to) {
				continue
			}
			list = append(list, t)
		}
		return nil
	})
	return pointers(page(list, limit, offset)), err
}
