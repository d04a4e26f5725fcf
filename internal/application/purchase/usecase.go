// Package purchase procesa compras a proveedor: conversión de paquetes a unidades base,
// entrada de stock, libro de stock, costo promedio y caja, en una sola unidad de trabajo.
package purchase

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
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

const defaultPackUnit = "unit"

// UseCase procesador de compras.
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

type line struct {
	req    dto.PurchaseItemRequest
	target entity.StockTarget
	conv   inventory.Conversion
}

// CreatePurchase valida, convierte cada línea y confirma la compra completa o nada.
func (uc *UseCase) CreatePurchase(ctx context.Context, shopID, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	log := uc.log.ForShop(shopID, "purchase")
	resp, err := uc.createPurchase(ctx, shopID, userID, in)
	if err != nil {
		log.Warn().Err(err).Str("invoice_no", in.InvoiceNo).Msg("compra rechazada")
		return nil, domain.Normalize(err)
	}
	log.Info().
		Str("purchase_id", resp.ID).
		Str("invoice_no", resp.InvoiceNo).
		Int("lines", len(resp.Items)).
		Str("total", resp.Total.StringFixed(2)).
		Str("due", resp.DueAmount.StringFixed(2)).
		Msg("compra registrada")
	return resp, nil
}

func (uc *UseCase) createPurchase(ctx context.Context, shopID, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.Validation("supplier_id", "proveedor requerido")
	}
	if in.InvoiceNo == "" {
		return nil, domain.Validation("invoice_no", "número de factura requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.Validation("items", "la compra no tiene líneas")
	}
	if in.Discount.IsNegative() {
		return nil, domain.Validation("discount", "el descuento no puede ser negativo")
	}
	if in.PaidAmount.IsNegative() {
		return nil, domain.Validation("paid_amount", "el monto pagado no puede ser negativo")
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if method == "" {
		method = entity.PaymentCash
	}

	lines := make([]line, 0, len(in.Items))
	targets := make([]entity.StockTarget, 0, len(in.Items))
	subtotal := decimal.Zero
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.Validation(fmt.Sprintf("items[%d].product_id", i), "producto requerido")
		}
		if !it.QtyPacks.IsPositive() {
			return nil, domain.InvalidQuantity(fmt.Sprintf("items[%d].qty_packs", i), "la cantidad de paquetes debe ser mayor que cero")
		}
		if it.MRP != nil && it.MRP.IsNegative() {
			return nil, domain.Validation(fmt.Sprintf("items[%d].mrp", i), "no puede ser negativo")
		}
		if it.PackUnit == "" {
			it.PackUnit = defaultPackUnit
		}
		conv, err := inventory.ConvertPack(inventory.PackLine{
			PackUnit:     it.PackUnit,
			PackSize:     it.PackSize,
			QtyPacks:     it.QtyPacks,
			PricePerPack: it.PricePerPack,
		})
		if err != nil {
			return nil, err
		}
		t := entity.StockTarget{ProductID: it.ProductID, VariantID: it.VariantID}
		lines = append(lines, line{req: it, target: t, conv: conv})
		targets = append(targets, t)
		subtotal = subtotal.Add(conv.Total)
	}

	discount := money.Currency(in.Discount)
	if discount.GreaterThan(subtotal) {
		return nil, domain.Validation("discount", "el descuento no puede superar el subtotal")
	}
	total := subtotal.Sub(discount)
	paid := money.Currency(in.PaidAmount)
	if paid.GreaterThan(total) {
		return nil, domain.Overpaid(paid, total)
	}

	supplier, err := uc.repos.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFound("supplier", in.SupplierID)
	}
	if supplier.ShopID != shopID {
		return nil, domain.TenantMismatch("supplier", supplier.ID)
	}

	now := time.Now().UTC()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	purchase := &entity.Purchase{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		SupplierID:    supplier.ID,
		InvoiceNo:     in.InvoiceNo,
		Date:          date,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		PaidAmount:    paid,
		DueAmount:     total.Sub(paid),
		PaymentMethod: method,
		Remarks:       in.Remarks,
		CreatedBy:     userID,
		CreatedAt:     now,
	}

	release, err := uc.locker.Acquire(ctx, inventory.LockKeys(shopID, targets))
	if err != nil {
		return nil, err
	}
	defer release()

	items := make([]*entity.PurchaseItem, 0, len(lines))
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		holds, err := stockledger.LockTargets(ctx, repos, shopID, targets, domain.TargetNotFound)
		if err != nil {
			return err
		}
		if err := repos.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		for _, l := range lines {
			item := &entity.PurchaseItem{
				ID:              uuid.New().String(),
				PurchaseID:      purchase.ID,
				ShopID:          shopID,
				ProductID:       l.target.ProductID,
				VariantID:       l.target.VariantID,
				PackUnit:        l.req.PackUnit,
				PackSize:        l.req.PackSize,
				QtyPacks:        l.req.QtyPacks,
				PricePerPack:    l.req.PricePerPack,
				TotalBaseQty:    l.conv.TotalBaseQty,
				CostPerBaseUnit: l.conv.CostPerBaseUnit,
				Total:           l.conv.Total,
				BatchNo:         l.req.BatchNo,
				ExpiryDate:      l.req.ExpiryDate,
				MRP:             l.req.MRP,
			}
			if err := repos.Purchases.CreateItem(ctx, item); err != nil {
				return err
			}

			cost := inventory.CostCalculator(holds.Available(l.target), holds.Cost(l.target), l.conv.TotalBaseQty, l.conv.CostPerBaseUnit)
			if err := holds.SetCost(ctx, repos, l.target, cost); err != nil {
				return err
			}
			if err := holds.AddStock(ctx, repos, l.target, l.conv.TotalBaseQty); err != nil {
				return err
			}
			if _, err := stockledger.RecordInTx(ctx, repos, stockledger.Movement{
				ShopID:          shopID,
				Type:            entity.StockPurchase,
				Target:          l.target,
				BatchNo:         l.req.BatchNo,
				ExpiryDate:      l.req.ExpiryDate,
				Quantity:        l.conv.TotalBaseQty,
				UnitCost:        l.conv.CostPerBaseUnit,
				PurchaseItemID:  item.ID,
				Reference:       purchase.InvoiceNo,
				TransactionDate: purchase.Date,
				CreatedBy:       userID,
			}); err != nil {
				return err
			}
			items = append(items, item)
		}
		return cashledger.SyncInTx(ctx, repos, cashledger.Entry{
			ShopID:        shopID,
			Date:          purchase.Date,
			Type:          entity.CashDebit,
			Source:        entity.SourcePurchase,
			Amount:        purchase.PaidAmount,
			PaymentMethod: purchase.PaymentMethod,
			Description:   "Compra " + purchase.InvoiceNo + " a " + supplier.Name,
			ReferenceNo:   purchase.InvoiceNo,
			ReferenceID:   purchase.ID,
			CreatedBy:     userID,
		})
	})
	if err != nil {
		return nil, err
	}
	resp := ToResponse(purchase, items)
	return &resp, nil
}

// GetPurchase devuelve la compra con sus líneas.
func (uc *UseCase) GetPurchase(ctx context.Context, shopID, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.repos.Purchases.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	if p == nil {
		return nil, domain.NotFound("purchase", id)
	}
	if p.ShopID != shopID {
		return nil, domain.TenantMismatch("purchase", id)
	}
	items, err := uc.repos.Purchases.GetItems(ctx, p.ID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	resp := ToResponse(p, items)
	return &resp, nil
}

// ToResponse entidad → DTO.
func ToResponse(p *entity.Purchase, items []*entity.PurchaseItem) dto.PurchaseResponse {
	resp := dto.PurchaseResponse{
		ID:            p.ID,
		ShopID:        p.ShopID,
		SupplierID:    p.SupplierID,
		InvoiceNo:     p.InvoiceNo,
		Date:          p.Date,
		Subtotal:      p.Subtotal,
		Discount:      p.Discount,
		Total:         p.Total,
		PaidAmount:    p.PaidAmount,
		DueAmount:     p.DueAmount,
		PaymentMethod: string(p.PaymentMethod),
		Remarks:       p.Remarks,
		Items:         make([]dto.PurchaseItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			VariantID:       it.VariantID,
			PackUnit:        it.PackUnit,
			PackSize:        it.PackSize,
			QtyPacks:        it.QtyPacks,
			PricePerPack:    it.PricePerPack,
			TotalBaseQty:    it.TotalBaseQty,
			CostPerBaseUnit: it.CostPerBaseUnit,
			Total:           it.Total,
			BatchNo:         it.BatchNo,
			ExpiryDate:      it.ExpiryDate,
			MRP:             it.MRP,
		})
	}
	return resp
}
