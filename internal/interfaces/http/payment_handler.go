package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/payment"
)

// PaymentHandler proveedores, abonos, pagos y saldos pendientes (protegido).
type PaymentHandler struct {
	uc *payment.UseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payment.UseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) CreateSupplier(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateSupplierRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.CreateSupplier(c.Context(), shopID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *PaymentHandler) ListSuppliers(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if e := bindQuery(c, &page); e != nil {
		return badRequest(c, e)
	}
	list, err := h.uc.ListSuppliers(c.Context(), shopID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"suppliers": list})
}

// CustomerPayment godoc
// @Summary      Abono de cliente
// @Description  El monto no puede superar el saldo pendiente del cliente (OVERPAID). Acredita caja.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CustomerPaymentRequest  true  "Abono"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/customers/payments [post]
func (h *PaymentHandler) CustomerPayment(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CustomerPaymentRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.RecordCustomerPayment(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SupplierPayment godoc
// @Summary      Pago a proveedor
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SupplierPaymentRequest  true  "Pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/suppliers/payments [post]
func (h *PaymentHandler) SupplierPayment(c *fiber.Ctx) error {
	shopID, userID, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.SupplierPaymentRequest
	if e := bindBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.RecordSupplierPayment(c.Context(), shopID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *PaymentHandler) CustomerDue(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.CustomerDue(c.Context(), shopID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *PaymentHandler) SupplierDue(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.SupplierDue(c.Context(), shopID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SupplierLedger estado de cuenta cronológico del proveedor.
func (h *PaymentHandler) SupplierLedger(c *fiber.Ctx) error {
	shopID, _, ok := tenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.SupplierStatement(c.Context(), shopID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
