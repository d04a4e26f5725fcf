package repository

// Repositories conjunto de puertos atados a una misma conexión o transacción.
type Repositories struct {
	Categories  CategoryRepository
	Products    ProductRepository
	Variants    VariantRepository
	Customers   CustomerRepository
	Suppliers   SupplierRepository
	Purchases   PurchaseRepository
	Sales       SaleRepository
	Expenses    ExpenseRepository
	Payments    PaymentRepository
	StockLedger StockLedgerRepository
	Cash        CashTransactionRepository
}
