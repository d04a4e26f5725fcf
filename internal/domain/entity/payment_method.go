package entity

// PaymentMethod medio de pago de ventas, compras, gastos y abonos.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentMobile PaymentMethod = "mobile"
	PaymentCard   PaymentMethod = "card"
	PaymentBank   PaymentMethod = "bank"
	PaymentDue    PaymentMethod = "due"
	PaymentOther  PaymentMethod = "other"
)
