package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/cashledger"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
)

// CashHandler libro de caja (protegido).
type CashHandler struct {
	uc *cashledger.UseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cashledger.UseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// CreateEntry godoc
// @Summary      Movimiento manual de caja
// @Description  Orígenes admitidos: investment, bank_deposit, bank_withdrawal, opening_balance, adjustment, manual.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CashEntryRequest  true  "Movimiento"
// @Success      201   {object}  dto.CashTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/transactions [post]
func (h *CashHandler) CreateEntry(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CashEntryRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.AppendCashEntry(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Movimientos de caja en orden de inserción
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to      query  string  false  "RFC3339 o YYYY-MM-DD (inclusive)"
// @Param        limit   query  int     false  "máx. 200"
// @Param        offset  query  int     false  "desplazamiento"
// @Router       /api/cash/transactions [get]
func (h *CashHandler) List(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var q dto.CashListQuery
	if e := bindQuery(c, &q.PageRequest); e != nil {
		return badRequest(c, e)
	}
	var err error
	if q.From, err = parseDateQuery(c.Query("from"), false); err != nil {
		return badRequest(c, &dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido", Entity: "from"})
	}
	if q.To, err = parseDateQuery(c.Query("to"), true); err != nil {
		return badRequest(c, &dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido", Entity: "to"})
	}
	list, err := h.uc.List(c.Context(), shopID, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": list})
}

// Balance saldo recalculado y comparación con el último running_balance.
func (h *CashHandler) Balance(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.VerifyBalance(c.Context(), shopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseDateQuery acepta RFC3339 o fecha sola; una fecha sola como límite superior cubre el día completo.
func parseDateQuery(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
