package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas). Son el "Kind" de Error y se comparan con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPaymentPolicy     = errors.New("política de pago violada")
	ErrOperationFailed   = errors.New("operación fallida")
)

// Códigos estables para el llamador.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeTargetNotFound    = "TARGET_NOT_FOUND"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeNotFound          = "NOT_FOUND"
	CodeTenantMismatch    = "TENANT_MISMATCH"
	CodeDuplicate         = "DUPLICATE"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeCustomerRequired  = "CUSTOMER_REQUIRED"
	CodeOverpaid          = "OVERPAID"
	CodeOperationFailed   = "OPERATION_FAILED"
)

// Error es el motivo estructurado de un rechazo: tipo + entidad afectada.
type Error struct {
	Kind      error
	Code      string
	Entity    string
	EntityID  string
	Available *decimal.Decimal
	Message   string
	cause     error
}

func (e *Error) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("%s: %s (%s %s)", e.Code, e.Message, e.Entity, e.EntityID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is permite errors.Is(err, domain.ErrInsufficientStock), etc.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validation entrada mal formada o fuera de rango.
func Validation(field, msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Code: CodeValidation, Entity: field, Message: msg}
}

// InvalidQuantity cantidad negativa o tamaño de paquete no positivo.
func InvalidQuantity(field, msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Code: CodeInvalidQuantity, Entity: field, Message: msg}
}

// NotFound entidad inexistente.
func NotFound(entity, id string) *Error {
	return &Error{Kind: ErrNotFound, Code: CodeNotFound, Entity: entity, EntityID: id, Message: entity + " no encontrado"}
}

// TargetNotFound el producto o variante de una línea de compra no existe.
func TargetNotFound(entity, id string) *Error {
	return &Error{Kind: ErrNotFound, Code: CodeTargetNotFound, Entity: entity, EntityID: id, Message: "destino de stock no encontrado"}
}

// ProductNotFound el producto de una línea de venta no existe.
func ProductNotFound(entity, id string) *Error {
	return &Error{Kind: ErrNotFound, Code: CodeProductNotFound, Entity: entity, EntityID: id, Message: "producto no encontrado"}
}

// TenantMismatch la entidad no pertenece a la tienda. Para el llamador es un NotFound:
// no se revela que el id exista en otra tienda.
func TenantMismatch(entity, id string) *Error {
	return &Error{Kind: ErrNotFound, Code: CodeTenantMismatch, Entity: entity, EntityID: id, Message: entity + " no encontrado en la tienda"}
}

// Duplicate violación de unicidad (código de producto, número de factura...).
func Duplicate(entity, key string) *Error {
	return &Error{Kind: ErrDuplicate, Code: CodeDuplicate, Entity: entity, EntityID: key, Message: entity + " duplicado"}
}

// InsufficientStock stock disponible menor que lo solicitado.
func InsufficientStock(entity, id, title string, available decimal.Decimal) *Error {
	return &Error{
		Kind:      ErrInsufficientStock,
		Code:      CodeInsufficientStock,
		Entity:    entity,
		EntityID:  id,
		Available: &available,
		Message:   fmt.Sprintf("stock insuficiente para %s. disponible: %s", title, available.String()),
	}
}

// CustomerRequired venta a crédito sin cliente.
func CustomerRequired() *Error {
	return &Error{Kind: ErrPaymentPolicy, Code: CodeCustomerRequired, Entity: "customer", Message: "se requiere cliente para ventas a crédito"}
}

// Overpaid monto pagado mayor que el total.
func Overpaid(paid, total decimal.Decimal) *Error {
	return &Error{
		Kind:    ErrPaymentPolicy,
		Code:    CodeOverpaid,
		Entity:  "paid_amount",
		Message: fmt.Sprintf("el monto pagado %s supera el total %s", paid.StringFixed(2), total.StringFixed(2)),
	}
}

// OperationFailed envuelve fallos de infraestructura (bloqueo, conexión, commit).
func OperationFailed(cause error) *Error {
	return &Error{Kind: ErrOperationFailed, Code: CodeOperationFailed, Message: "la operación no pudo completarse", cause: cause}
}

// AsError devuelve el *Error contenido en err, si existe.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Normalize deja pasar errores de dominio y convierte el resto en OperationFailed.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return OperationFailed(err)
}
