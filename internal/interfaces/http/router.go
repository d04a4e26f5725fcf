package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/cashledger"
	"github.com/jhoicas/pos-ledger/internal/application/catalog"
	"github.com/jhoicas/pos-ledger/internal/application/expense"
	"github.com/jhoicas/pos-ledger/internal/application/payment"
	"github.com/jhoicas/pos-ledger/internal/application/purchase"
	"github.com/jhoicas/pos-ledger/internal/application/sale"
	"github.com/jhoicas/pos-ledger/internal/application/stockledger"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// Roles que pueden escribir en los libros de forma manual.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog   *catalog.UseCase
	Stock     *stockledger.UseCase
	Purchases *purchase.UseCase
	Sales     *sale.UseCase
	Payments  *payment.UseCase
	Expenses  *expense.UseCase
	Cash      *cashledger.UseCase
	Log       *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token: la tienda sale del token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.Log != nil {
		api.Use(RequestLogger(deps.Log))
	}

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(RoleAdmin, RoleManager)

	catalogHandler := NewCatalogHandler(deps.Catalog)
	products := protected.Group("/products")
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/lookup", catalogHandler.LookupProduct)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Post("/:id/variants", catalogHandler.CreateVariant)
	protected.Post("/categories", managers, catalogHandler.CreateCategory)
	protected.Get("/categories", catalogHandler.ListCategories)

	stockHandler := NewStockHandler(deps.Stock, deps.Catalog)
	stock := protected.Group("/stock")
	stock.Get("/level", stockHandler.Level)
	stock.Get("/batches", stockHandler.Batches)
	stock.Get("/history", stockHandler.History)
	stock.Get("/reconcile", stockHandler.Reconcile)
	stock.Post("/adjustments", managers, stockHandler.Adjust)

	docs := NewDocumentHandler(deps.Purchases, deps.Sales, deps.Expenses)
	protected.Post("/purchases", docs.CreatePurchase)
	protected.Get("/purchases/:id", docs.GetPurchase)
	protected.Post("/sales", docs.CreateSale)
	protected.Get("/sales", docs.ListSales)
	protected.Get("/sales/:id", docs.GetSale)
	protected.Post("/expenses", docs.CreateExpense)
	protected.Get("/expenses", docs.ListExpenses)

	customerHandler := NewCustomerHandler(deps.Payments)
	protected.Get("/customers", customerHandler.List)
	protected.Get("/customers/lookup", customerHandler.Lookup)

	payHandler := NewPaymentHandler(deps.Payments)
	protected.Post("/customers/payments", payHandler.CustomerPayment)
	protected.Get("/customers/:id/due", payHandler.CustomerDue)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", payHandler.CreateSupplier)
	suppliers.Get("/", payHandler.ListSuppliers)
	suppliers.Post("/payments", payHandler.SupplierPayment)
	suppliers.Get("/:id/due", payHandler.SupplierDue)
	suppliers.Get("/:id/ledger", payHandler.SupplierLedger)

	cashHandler := NewCashHandler(deps.Cash)
	cash := protected.Group("/cash")
	cash.Post("/transactions", managers, cashHandler.CreateEntry)
	cash.Get("/transactions", cashHandler.List)
	cash.Get("/balance", cashHandler.Balance)
}
