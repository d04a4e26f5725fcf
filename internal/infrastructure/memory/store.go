// Package memory implementa los puertos de repositorio en memoria.
// Se usa en modo desarrollo (LEDGER_STORAGE=memory) y en los tests de casos de uso.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

type state struct {
	categories       map[string]entity.Category
	products         map[string]entity.Product
	variants         map[string]entity.ProductVariant
	customers        map[string]entity.Customer
	suppliers        map[string]entity.Supplier
	purchases        map[string]entity.Purchase
	purchaseItems    []entity.PurchaseItem
	sales            map[string]entity.Sale
	saleItems        []entity.SaleItem
	expenses         []entity.Expense
	customerPayments []entity.CustomerPayment
	supplierPayments []entity.SupplierPayment
	stockLedger      []entity.StockLedgerEntry
	cash             []entity.CashTransaction
	cashSeq          map[string]int64
}

func newState() *state {
	return &state{
		categories: map[string]entity.Category{},
		products:  map[string]entity.Product{},
		variants:  map[string]entity.ProductVariant{},
		customers: map[string]entity.Customer{},
		suppliers: map[string]entity.Supplier{},
		purchases: map[string]entity.Purchase{},
		sales:     map[string]entity.Sale{},
		cashSeq:   map[string]int64{},
	}
}

// clone copia mapas y slices; las entidades son valores y no se mutan en sitio.
func (s *state) clone() *state {
	return &state{
		categories:       maps.Clone(s.categories),
		products:         maps.Clone(s.products),
		variants:         maps.Clone(s.variants),
		customers:        maps.Clone(s.customers),
		suppliers:        maps.Clone(s.suppliers),
		purchases:        maps.Clone(s.purchases),
		purchaseItems:    slices.Clone(s.purchaseItems),
		sales:            maps.Clone(s.sales),
		saleItems:        slices.Clone(s.saleItems),
		expenses:         slices.Clone(s.expenses),
		customerPayments: slices.Clone(s.customerPayments),
		supplierPayments: slices.Clone(s.supplierPayments),
		stockLedger:      slices.Clone(s.stockLedger),
		cash:             slices.Clone(s.cash),
		cashSeq:          maps.Clone(s.cashSeq),
	}
}

type accessFunc func(fn func(st *state) error) error

// Store estado compartido protegido por un único mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) direct(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Repositories devuelve repositorios fuera de transacción: cada llamada es atómica por sí sola.
// No usar dentro de TxRunner.Run (el mutex ya está tomado).
func (s *Store) Repositories() repository.Repositories {
	return bind(s.direct)
}

func bind(access accessFunc) repository.Repositories {
	return repository.Repositories{
		Categories:  &CategoryRepo{access: access},
		Products:    &ProductRepo{access: access},
		Variants:    &VariantRepo{access: access},
		Customers:   &CustomerRepo{access: access},
		Suppliers:   &SupplierRepo{access: access},
		Purchases:   &PurchaseRepo{access: access},
		Sales:       &SaleRepo{access: access},
		Expenses:    &ExpenseRepo{access: access},
		Payments:    &PaymentRepo{access: access},
		StockLedger: &StockLedgerRepo{access: access},
		Cash:        &CashTransactionRepo{access: access},
	}
}

// TxRunner ejecuta cada unidad de trabajo en serie sobre una copia del estado.
// Si fn devuelve error la copia se descarta (rollback); si no, reemplaza al estado (commit).
type TxRunner struct {
	store *Store
}

// NewTxRunner crea el ejecutor transaccional del almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{store: s}
}

// Run implementa ports.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.st.clone()
	repos := bind(func(f func(st *state) error) error { return f(work) })
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.st = work
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
