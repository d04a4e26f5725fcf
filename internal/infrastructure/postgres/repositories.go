package postgres

import (
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// NewRepositories ata todos los repositorios a q (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Categories:  NewCategoryRepository(q),
		Products:    NewProductRepository(q),
		Variants:    NewVariantRepository(q),
		Customers:   NewCustomerRepository(q),
		Suppliers:   NewSupplierRepository(q),
		Purchases:   NewPurchaseRepository(q),
		Sales:       NewSaleRepository(q),
		Expenses:    NewExpenseRepository(q),
		Payments:    NewPaymentRepository(q),
		StockLedger: NewStockLedgerRepository(q),
		Cash:        NewCashTransactionRepository(q),
	}
}
