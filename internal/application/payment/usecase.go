// Package payment abonos de clientes, pagos a proveedores y saldos pendientes derivados de los libros.
package payment

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/cashledger"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/ports"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// UseCase libro de pagos.
type UseCase struct {
	tx    ports.TxRunner
	repos repository.Repositories
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos repository.Repositories, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, log: log}
}

// CreateSupplier alta de proveedor.
func (uc *UseCase) CreateSupplier(ctx context.Context, shopID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.Validation("name", "nombre requerido")
	}
	if in.OpeningBalance.IsNegative() {
		return nil, domain.Validation("opening_balance", "no puede ser negativo")
	}
	s := &entity.Supplier{
		ID:             uuid.New().String(),
		ShopID:         shopID,
		Name:           in.Name,
		Phone:          in.Phone,
		Address:        in.Address,
		OpeningBalance: money.Currency(in.OpeningBalance),
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.repos.Suppliers.Create(ctx, s); err != nil {
		return nil, domain.Normalize(err)
	}
	uc.log.ForShop(shopID, "payment").Info().Str("supplier_id", s.ID).Msg("proveedor creado")
	resp := supplierToResponse(s)
	return &resp, nil
}

// ListSuppliers proveedores de la tienda por nombre.
func (uc *UseCase) ListSuppliers(ctx context.Context, shopID string, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Suppliers.ListByShop(ctx, shopID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, supplierToResponse(s))
	}
	return out, nil
}

// ListCustomers clientes de la tienda por nombre; Search filtra por nombre o teléfono.
func (uc *UseCase) ListCustomers(ctx context.Context, shopID string, q dto.CustomerListQuery) ([]dto.CustomerResponse, error) {
	q.DefaultPage()
	list, err := uc.repos.Customers.ListByShop(ctx, shopID, strings.TrimSpace(q.Search), q.Limit, q.Offset)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, customerToResponse(c))
	}
	return out, nil
}

// LookupCustomer cliente por teléfono, con su saldo pendiente.
func (uc *UseCase) LookupCustomer(ctx context.Context, shopID, phone string) (*dto.CustomerResponse, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, domain.Validation("phone", "teléfono requerido")
	}
	c, err := uc.repos.Customers.GetByShopAndPhone(ctx, shopID, phone)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if c == nil {
		return nil, domain.NotFound("customer", phone)
	}
	d, err := customerDue(ctx, uc.repos, shopID, c.ID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	resp := customerToResponse(c)
	resp.Due = &d.Due
	return &resp, nil
}

// RecordCustomerPayment abono de un cliente. No puede superar su saldo pendiente.
func (uc *UseCase) RecordCustomerPayment(ctx context.Context, shopID, userID string, in dto.CustomerPaymentRequest) (*dto.PaymentResponse, error) {
	amount, method, err := validateAmount(in.Amount, in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	customer, err := uc.repos.Customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if customer == nil {
		return nil, domain.NotFound("customer", in.CustomerID)
	}
	if customer.ShopID != shopID {
		return nil, domain.TenantMismatch("customer", customer.ID)
	}

	now := time.Now().UTC()
	p := &entity.CustomerPayment{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		CustomerID:    customer.ID,
		Date:          dateOr(in.Date, now),
		MemoNo:        in.MemoNo,
		Amount:        amount,
		PaymentMethod: method,
		Remarks:       in.Remarks,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	var due decimal.Decimal
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		// el bloqueo de caja serializa los abonos de la tienda mientras se calcula el saldo
		if err := repos.Cash.LockShop(ctx, shopID); err != nil {
			return err
		}
		d, err := customerDue(ctx, repos, shopID, customer.ID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(d.Due) {
			return domain.Overpaid(amount, d.Due)
		}
		if err := repos.Payments.CreateCustomerPayment(ctx, p); err != nil {
			return err
		}
		due = d.Due.Sub(amount)
		return cashledger.SyncInTx(ctx, repos, cashledger.Entry{
			ShopID:        shopID,
			Date:          p.Date,
			Type:          entity.CashCredit,
			Source:        entity.SourceCustomerPayment,
			Amount:        amount,
			PaymentMethod: method,
			Description:   "Abono de " + customer.Name,
			ReferenceNo:   p.MemoNo,
			ReferenceID:   p.ID,
			CreatedBy:     userID,
		})
	})
	log := uc.log.ForShop(shopID, "payment")
	if err != nil {
		log.Warn().Err(err).Str("customer_id", customer.ID).Msg("abono rechazado")
		return nil, domain.Normalize(err)
	}
	log.Info().Str("payment_id", p.ID).Str("customer_id", customer.ID).Str("amount", amount.StringFixed(2)).Msg("abono registrado")
	return &dto.PaymentResponse{
		ID:            p.ID,
		PartyID:       customer.ID,
		Date:          p.Date,
		Amount:        p.Amount,
		PaymentMethod: string(p.PaymentMethod),
		MemoNo:        p.MemoNo,
		Remarks:       p.Remarks,
		DueAfter:      due,
	}, nil
}

// RecordSupplierPayment pago a un proveedor. No puede superar la deuda con él.
func (uc *UseCase) RecordSupplierPayment(ctx context.Context, shopID, userID string, in dto.SupplierPaymentRequest) (*dto.PaymentResponse, error) {
	amount, method, err := validateAmount(in.Amount, in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.supplier(ctx, shopID, in.SupplierID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &entity.SupplierPayment{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		SupplierID:    supplier.ID,
		Date:          dateOr(in.Date, now),
		MemoNo:        in.MemoNo,
		Amount:        amount,
		PaymentMethod: method,
		Remarks:       in.Remarks,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	var due decimal.Decimal
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Cash.LockShop(ctx, shopID); err != nil {
			return err
		}
		d, err := supplierDue(ctx, repos, shopID, supplier)
		if err != nil {
			return err
		}
		if amount.GreaterThan(d.Due) {
			return domain.Overpaid(amount, d.Due)
		}
		if err := repos.Payments.CreateSupplierPayment(ctx, p); err != nil {
			return err
		}
		due = d.Due.Sub(amount)
		return cashledger.SyncInTx(ctx, repos, cashledger.Entry{
			ShopID:        shopID,
			Date:          p.Date,
			Type:          entity.CashDebit,
			Source:        entity.SourceSupplierPayment,
			Amount:        amount,
			PaymentMethod: method,
			Description:   "Pago a " + supplier.Name,
			ReferenceNo:   p.MemoNo,
			ReferenceID:   p.ID,
			CreatedBy:     userID,
		})
	})
	log := uc.log.ForShop(shopID, "payment")
	if err != nil {
		log.Warn().Err(err).Str("supplier_id", supplier.ID).Msg("pago a proveedor rechazado")
		return nil, domain.Normalize(err)
	}
	log.Info().Str("payment_id", p.ID).Str("supplier_id", supplier.ID).Str("amount", amount.StringFixed(2)).Msg("pago a proveedor registrado")
	return &dto.PaymentResponse{
		ID:            p.ID,
		PartyID:       supplier.ID,
		Date:          p.Date,
		Amount:        p.Amount,
		PaymentMethod: string(p.PaymentMethod),
		MemoNo:        p.MemoNo,
		Remarks:       p.Remarks,
		DueAfter:      due,
	}, nil
}

// CustomerDue Σ due de ventas - Σ abonos.
func (uc *UseCase) CustomerDue(ctx context.Context, shopID, customerID string) (*dto.DueResponse, error) {
	c, err := uc.repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if c == nil {
		return nil, domain.NotFound("customer", customerID)
	}
	if c.ShopID != shopID {
		return nil, domain.TenantMismatch("customer", customerID)
	}
	d, err := customerDue(ctx, uc.repos, shopID, c.ID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	return d, nil
}

// SupplierDue saldo inicial + Σ due de compras - Σ pagos.
func (uc *UseCase) SupplierDue(ctx context.Context, shopID, supplierID string) (*dto.DueResponse, error) {
	s, err := uc.supplier(ctx, shopID, supplierID)
	if err != nil {
		return nil, err
	}
	d, err := supplierDue(ctx, uc.repos, shopID, s)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	return d, nil
}

// SupplierStatement estado de cuenta cronológico: compras al debe (total), pagos al haber.
// El saldo arranca en el saldo inicial del proveedor.
func (uc *UseCase) SupplierStatement(ctx context.Context, shopID, supplierID string) (*dto.SupplierStatementResponse, error) {
	s, err := uc.supplier(ctx, shopID, supplierID)
	if err != nil {
		return nil, err
	}
	purchases, err := uc.repos.Purchases.ListBySupplier(ctx, shopID, s.ID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	payments, err := uc.repos.Payments.ListSupplierPayments(ctx, shopID, s.ID)
	if err != nil {
		return nil, domain.Normalize(err)
	}

	rows := make([]dto.StatementRow, 0, len(purchases)+len(payments))
	totalPurchase, totalPaid := decimal.Zero, decimal.Zero
	for _, p := range purchases {
		rows = append(rows, dto.StatementRow{Date: p.Date, Type: "purchase", DocumentID: p.ID, Memo: p.InvoiceNo, Debit: p.Total, Credit: p.PaidAmount})
		totalPurchase = totalPurchase.Add(p.Total)
		totalPaid = totalPaid.Add(p.PaidAmount)
	}
	for _, p := range payments {
		rows = append(rows, dto.StatementRow{Date: p.Date, Type: "payment", DocumentID: p.ID, Memo: p.MemoNo, Debit: decimal.Zero, Credit: p.Amount})
		totalPaid = totalPaid.Add(p.Amount)
	}
	slices.SortStableFunc(rows, func(a, b dto.StatementRow) int { return a.Date.Compare(b.Date) })

	balance := s.OpeningBalance
	for i := range rows {
		balance = balance.Add(rows[i].Debit).Sub(rows[i].Credit)
		rows[i].Balance = balance
	}
	return &dto.SupplierStatementResponse{
		SupplierID:     s.ID,
		Name:           s.Name,
		OpeningBalance: s.OpeningBalance,
		TotalPurchase:  totalPurchase,
		TotalPaid:      totalPaid,
		TotalDue:       balance,
		Rows:           rows,
	}, nil
}

func (uc *UseCase) supplier(ctx context.Context, shopID, id string) (*entity.Supplier, error) {
	s, err := uc.repos.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if s == nil {
		return nil, domain.NotFound("supplier", id)
	}
	if s.ShopID != shopID {
		return nil, domain.TenantMismatch("supplier", id)
	}
	return s, nil
}

func customerDue(ctx context.Context, repos repository.Repositories, shopID, customerID string) (*dto.DueResponse, error) {
	charged, err := repos.Sales.SumDueByCustomer(ctx, shopID, customerID)
	if err != nil {
		return nil, err
	}
	paid, err := repos.Payments.SumCustomerPayments(ctx, shopID, customerID)
	if err != nil {
		return nil, err
	}
	return &dto.DueResponse{PartyID: customerID, Charged: charged, Paid: paid, Due: charged.Sub(paid)}, nil
}

func supplierDue(ctx context.Context, repos repository.Repositories, shopID string, s *entity.Supplier) (*dto.DueResponse, error) {
	purchased, err := repos.Purchases.SumDueBySupplier(ctx, shopID, s.ID)
	if err != nil {
		return nil, err
	}
	paid, err := repos.Payments.SumSupplierPayments(ctx, shopID, s.ID)
	if err != nil {
		return nil, err
	}
	charged := s.OpeningBalance.Add(purchased)
	return &dto.DueResponse{PartyID: s.ID, Charged: charged, Paid: paid, Due: charged.Sub(paid)}, nil
}

func validateAmount(amount decimal.Decimal, rawMethod string) (decimal.Decimal, entity.PaymentMethod, error) {
	amount = money.Currency(amount)
	if !amount.IsPositive() {
		return decimal.Zero, "", domain.Validation("amount", "el monto debe ser mayor que cero")
	}
	method := entity.PaymentMethod(rawMethod)
	switch method {
	case "":
		method = entity.PaymentCash
	case entity.PaymentCash, entity.PaymentMobile, entity.PaymentCard, entity.PaymentBank, entity.PaymentOther:
	default:
		return decimal.Zero, "", domain.Validation("payment_method", "medio de pago no admitido")
	}
	return amount, method, nil
}

func dateOr(d *time.Time, def time.Time) time.Time {
	if d != nil {
		return *d
	}
	return def
}

func supplierToResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:             s.ID,
		Name:           s.Name,
		Phone:          s.Phone,
		Address:        s.Address,
		OpeningBalance: s.OpeningBalance,
	}
}

func customerToResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, Points: c.Points}
}
