package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/expense"
	"github.com/jhoicas/pos-ledger/internal/application/purchase"
	"github.com/jhoicas/pos-ledger/internal/application/sale"
)

// DocumentHandler compras, ventas y gastos (protegido). Cada documento se confirma completo o no se confirma.
type DocumentHandler struct {
	purchases *purchase.UseCase
	sales     *sale.UseCase
	expenses  *expense.UseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(purchases *purchase.UseCase, sales *sale.UseCase, expenses *expense.UseCase) *DocumentHandler {
	return &DocumentHandler{purchases: purchases, sales: sales, expenses: expenses}
}

// CreatePurchase godoc
// @Summary      Registrar compra a proveedor
// @Description  Convierte paquetes a unidades base, suma stock, recalcula costo promedio y debita caja por paid_amount.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *DocumentHandler) CreatePurchase(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreatePurchaseRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.purchases.CreatePurchase(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetPurchase compra con sus líneas.
func (h *DocumentHandler) GetPurchase(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.purchases.GetPurchase(c.Context(), shopID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Valida stock de todas las líneas, aplica la política de pago (due requiere cliente) y acredita caja por paid_amount.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK con available"
// @Failure      422   {object}  dto.ErrorResponse  "CUSTOMER_REQUIRED u OVERPAID"
// @Router       /api/sales [post]
func (h *DocumentHandler) CreateSale(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateSaleRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.sales.CreateSale(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSale venta con sus líneas.
func (h *DocumentHandler) GetSale(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.sales.GetSale(c.Context(), shopID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateExpense gasto operativo; debita caja en la misma transacción.
// ListSales historial de ventas, más recientes primero.
func (h *DocumentHandler) ListSales(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if e := bindQuery(c, &page); e != nil {
		return badRequest(c, e)
	}
	list, err := h.sales.ListSales(c.Context(), shopID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"sales": list})
}

func (h *DocumentHandler) CreateExpense(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateExpenseRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.expenses.RecordExpense(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *DocumentHandler) ListExpenses(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if e := bindQuery(c, &page); e != nil {
		return badRequest(c, e)
	}
	list, err := h.expenses.ListExpenses(c.Context(), shopID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"expenses": list})
}
