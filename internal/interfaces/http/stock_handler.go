package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/catalog"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/stockledger"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// StockHandler consultas y ajustes del libro de stock (protegido).
type StockHandler struct {
	ledger  *stockledger.UseCase
	catalog *catalog.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stockledger.UseCase, catalog *catalog.UseCase) *StockHandler {
	return &StockHandler{ledger: ledger, catalog: catalog}
}

func stockTarget(c *fiber.Ctx) (entity.StockTarget, *dto.ErrorResponse) {
	var q dto.StockTargetQuery
	if e := bindQuery(c, &q); e != nil {
		return entity.StockTarget{}, e
	}
	return entity.StockTarget{ProductID: q.ProductID, VariantID: q.VariantID}, nil
}

// Level godoc
// @Summary      Stock actual de un producto o variante en unidades base
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query     string  true   "Producto"
// @Param        variant_id  query     string  false  "Variante"
// @Success      200         {object}  dto.StockLevelResponse
// @Router       /api/stock/level [get]
func (h *StockHandler) Level(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	target, e := stockTarget(c)
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.catalog.StockLevel(c.Context(), shopID, target)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Batches lotes con saldo en orden FIFO por vencimiento.
func (h *StockHandler) Batches(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	target, e := stockTarget(c)
	if e != nil {
		return badRequest(c, e)
	}
	list, err := h.ledger.Batches(c.Context(), shopID, target)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "batches": list})
}

// History movimientos del destino, más recientes primero.
func (h *StockHandler) History(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	target, e := stockTarget(c)
	if e != nil {
		return badRequest(c, e)
	}
	var page dto.PageRequest
	if e := bindQuery(c, &page); e != nil {
		return badRequest(c, e)
	}
	list, err := h.ledger.History(c.Context(), shopID, target, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"entries": list})
}

// Reconcile compara el stock del catálogo con la suma del libro.
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	target, e := stockTarget(c)
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.ledger.Reconcile(c.Context(), shopID, target)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste o devolución de stock
// @Description  quantity con signo para adjustment; positiva para return. reason es obligatorio.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockAdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.StockLedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.StockAdjustmentRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.ledger.Adjust(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
