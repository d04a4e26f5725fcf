package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/payment"
)

// CustomerHandler consulta de clientes desde el POS (protegido).
type CustomerHandler struct {
	uc *payment.UseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *payment.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        search  query     string  false  "nombre o teléfono"
// @Param        limit   query     int     false  "máx. 200"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {array}   dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var q dto.CustomerListQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	list, err := h.uc.ListCustomers(c.Context(), shopID, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"customers": list})
}

// Lookup cliente por teléfono con su saldo pendiente.
func (h *CustomerHandler) Lookup(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var q dto.CustomerLookupQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.LookupCustomer(c.Context(), shopID, q.Phone)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
