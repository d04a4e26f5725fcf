// Package sale procesa ventas: cliente por teléfono, verificación de stock bajo bloqueo,
// totales, política de pago, puntos de fidelidad, libro de stock y caja.
package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/cashledger"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/ports"
	"github.com/jhoicas/pos-ledger/internal/application/stockledger"
	"github.com/jhoicas/pos-ledger/internal/domain"
	pricing "github.com/jhoicas/pos-ledger/internal/domain/catalog"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/domain/sales"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// UseCase procesador de ventas.
type UseCase struct {
	tx     ports.TxRunner
	repos  repository.Repositories
	locker ports.Locker
	log    *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos repository.Repositories, locker ports.Locker, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, locker: locker, log: log}
}

// CreateSale confirma la venta completa o nada: no hay descuento de stock sin venta ni venta sin descuento.
func (uc *UseCase) CreateSale(ctx context.Context, shopID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	log := uc.log.ForShop(shopID, "sale")
	resp, err := uc.createSale(ctx, shopID, userID, in)
	if err != nil {
		log.Warn().Err(err).Int("lines", len(in.Items)).Msg("venta rechazada")
		return nil, domain.Normalize(err)
	}
	log.Info().
		Str("sale_id", resp.ID).
		Str("total", resp.Total.StringFixed(2)).
		Str("paid", resp.PaidAmount.StringFixed(2)).
		Str("due", resp.DueAmount.StringFixed(2)).
		Int64("earned_points", resp.EarnedPoints).
		Msg("venta registrada")
	return resp, nil
}

func (uc *UseCase) createSale(ctx context.Context, shopID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Validation("items", "la venta no tiene líneas")
	}
	if in.Discount.IsNegative() {
		return nil, domain.Validation("discount", "el descuento no puede ser negativo")
	}
	if in.RedeemedPoints < 0 {
		return nil, domain.Validation("redeemed_points", "no puede ser negativo")
	}
	method := entity.PaymentMethod(in.Payment.Method)
	if method == "" {
		method = entity.PaymentCash
	}
	if !sales.ValidMethod(method) {
		return nil, domain.Validation("payment.method", "medio de pago desconocido")
	}
	hasCustomer := in.Customer != nil
	if hasCustomer && in.Customer.Phone == "" {
		return nil, domain.Validation("customer_data.phone", "teléfono del cliente requerido")
	}
	if !hasCustomer && in.RedeemedPoints > 0 {
		return nil, domain.Validation("redeemed_points", "solo un cliente puede canjear puntos")
	}

	targets := make([]entity.StockTarget, 0, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.Validation(fmt.Sprintf("items[%d].product_id", i), "producto requerido")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.InvalidQuantity(fmt.Sprintf("items[%d].quantity", i), "la cantidad debe ser mayor que cero")
		}
		if it.Price != nil && it.Price.IsNegative() {
			return nil, domain.Validation(fmt.Sprintf("items[%d].price", i), "el precio no puede ser negativo")
		}
		targets = append(targets, entity.StockTarget{ProductID: it.ProductID, VariantID: it.VariantID})
	}

	release, err := uc.locker.Acquire(ctx, inventory.LockKeys(shopID, targets))
	if err != nil {
		return nil, err
	}
	defer release()

	now := time.Now().UTC()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		ShopID:         shopID,
		Date:           now,
		PaymentMethod:  method,
		RedeemedPoints: in.RedeemedPoints,
		TrxID:          in.Payment.TrxID,
		CreatedBy:      userID,
		CreatedAt:      now,
	}
	var items []*entity.SaleItem
	var customerPoints *int64

	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		customer, err := resolveCustomer(ctx, repos, shopID, in.Customer)
		if err != nil {
			return err
		}

		holds, err := stockledger.LockTargets(ctx, repos, shopID, targets, domain.ProductNotFound)
		if err != nil {
			return err
		}
		// una misma referencia puede aparecer en varias líneas
		requested := make(map[entity.StockTarget]decimal.Decimal, len(targets))
		for i, t := range targets {
			requested[t] = requested[t].Add(money.Quantity(in.Items[i].Quantity))
		}
		for _, t := range targets {
			if err := holds.CheckAvailable(t, requested[t]); err != nil {
				return err
			}
		}

		items = make([]*entity.SaleItem, 0, len(in.Items))
		amounts := make([]sales.LineAmounts, 0, len(in.Items))
		for i, it := range in.Items {
			t := targets[i]
			p := holds.Product(t.ProductID)
			price := pricing.UnitPrice(p, holds.Variant(t.VariantID))
			if it.Price != nil {
				price = money.Currency(*it.Price)
			}
			qty := money.Quantity(it.Quantity)
			la := sales.ComputeLine(sales.Line{Quantity: qty, Price: price, VATApplicable: p.VATApplicable, VATPercent: p.VATPercent})
			unit := it.Unit
			if unit == "" {
				unit = string(p.BaseUnit)
			}
			items = append(items, &entity.SaleItem{
				ID:            uuid.New().String(),
				SaleID:        sale.ID,
				ShopID:        shopID,
				ProductID:     t.ProductID,
				VariantID:     t.VariantID,
				Quantity:      qty,
				Unit:          unit,
				Price:         price,
				Total:         la.Total,
				VATApplicable: p.VATApplicable,
				VATPercent:    p.VATPercent,
				VATAmount:     la.VATAmount,
			})
			amounts = append(amounts, la)
		}

		totals, err := sales.ComputeTotals(amounts, in.Discount)
		if err != nil {
			return err
		}
		payment, err := sales.ApplyPaymentPolicy(method, in.Payment.PaidAmount, totals.Total, customer != nil)
		if err != nil {
			return err
		}
		sale.Subtotal = totals.Subtotal
		sale.Discount = totals.Discount
		sale.VATAmount = totals.VATAmount
		sale.Total = totals.Total
		sale.PaidAmount = payment.PaidAmount
		sale.DueAmount = payment.DueAmount
		sale.EarnedPoints = sales.EarnedPoints(totals.Total)
		if customer != nil {
			sale.CustomerID = customer.ID
		}

		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for i, item := range items {
			if err := repos.Sales.CreateItem(ctx, item); err != nil {
				return err
			}
			t := targets[i]
			cost := holds.Cost(t)
			if err := holds.AddStock(ctx, repos, t, item.Quantity.Neg()); err != nil {
				return err
			}
			if _, err := stockledger.RecordInTx(ctx, repos, stockledger.Movement{
				ShopID:          shopID,
				Type:            entity.StockSale,
				Target:          t,
				Quantity:        item.Quantity.Neg(),
				UnitCost:        cost,
				SaleItemID:      item.ID,
				Reference:       sale.ID,
				TransactionDate: sale.Date,
				CreatedBy:       userID,
			}); err != nil {
				return err
			}
		}

		if customer != nil {
			points := sales.NextPoints(customer.Points, sale.RedeemedPoints, sale.EarnedPoints)
			if err := repos.Customers.UpdatePoints(ctx, customer.ID, points); err != nil {
				return err
			}
			customerPoints = &points
		}

		return cashledger.SyncInTx(ctx, repos, cashledger.Entry{
			ShopID:        shopID,
			Date:          sale.Date,
			Type:          entity.CashCredit,
			Source:        entity.SourceSale,
			Amount:        sale.PaidAmount,
			PaymentMethod: sale.PaymentMethod,
			Description:   "Venta " + sale.ID,
			ReferenceNo:   sale.TrxID,
			ReferenceID:   sale.ID,
			CreatedBy:     userID,
		})
	})
	if err != nil {
		return nil, err
	}
	resp := ToResponse(sale, items)
	resp.CustomerPoints = customerPoints
	return &resp, nil
}

// resolveCustomer busca el cliente por teléfono dentro de la tienda y lo crea si no existe.
// Si existe y el nombre enviado es distinto, lo actualiza.
func resolveCustomer(ctx context.Context, repos repository.Repositories, shopID string, in *dto.SaleCustomerRequest) (*entity.Customer, error) {
	if in == nil {
		return nil, nil
	}
	c, err := repos.Customers.GetOrCreateForUpdate(ctx, &entity.Customer{
		ID:     uuid.New().String(),
		ShopID: shopID,
		Name:   in.Name,
		Phone:  in.Phone,
	})
	if err != nil {
		return nil, err
	}
	if in.Name != "" && in.Name != c.Name {
		if err := repos.Customers.UpdateName(ctx, c.ID, in.Name); err != nil {
			return nil, err
		}
		c.Name = in.Name
	}
	return c, nil
}

// GetSale devuelve la venta con sus líneas.
func (uc *UseCase) GetSale(ctx context.Context, shopID, id string) (*dto.SaleResponse, error) {
	s, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if s == nil {
		return nil, domain.NotFound("sale", id)
	}
	if s.ShopID != shopID {
		return nil, domain.TenantMismatch("sale", id)
	}
	items, err := uc.repos.Sales.GetItems(ctx, s.ID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	resp := ToResponse(s, items)
	return &resp, nil
}

// ListSales historial de ventas de la tienda, más recientes primero. No incluye líneas.
func (uc *UseCase) ListSales(ctx context.Context, shopID string, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Sales.ListByShop(ctx, shopID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		resp := ToResponse(s, nil)
		resp.Items = nil
		out = append(out, resp)
	}
	return out, nil
}

// ToResponse entidad → DTO.
func ToResponse(s *entity.Sale, items []*entity.SaleItem) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:             s.ID,
		ShopID:         s.ShopID,
		CustomerID:     s.CustomerID,
		Date:           s.Date,
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		VATAmount:      s.VATAmount,
		Total:          s.Total,
		PaymentMethod:  string(s.PaymentMethod),
		PaidAmount:     s.PaidAmount,
		DueAmount:      s.DueAmount,
		RedeemedPoints: s.RedeemedPoints,
		EarnedPoints:   s.EarnedPoints,
		TrxID:          s.TrxID,
		Items:          make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			Price:     it.Price,
			Total:     it.Total,
			VATAmount: it.VATAmount,
		})
	}
	return resp
}
