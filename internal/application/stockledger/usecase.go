// Package stockledger libro de stock de solo inserción: registro de movimientos,
// lotes en orden FIFO por vencimiento, historial, ajustes y conciliación con el catálogo.
package stockledger

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/ports"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultBatchPage filas por página al recorrer lotes.
const DefaultBatchPage = 100

// Movement entrada de Record / RecordInTx.
type Movement struct {
	ShopID          string
	Type            entity.StockTransactionType
	Target          entity.StockTarget
	BatchNo         string
	ExpiryDate      *time.Time
	Quantity        decimal.Decimal // con signo: + entra, - sale
	UnitCost        decimal.Decimal
	PurchaseItemID  string
	SaleItemID      string
	Reference       string
	TransactionDate time.Time
	CreatedBy       string
}

// UseCase casos de uso del libro de stock.
type UseCase struct {
	tx       ports.TxRunner
	repos    repository.Repositories
	locker   ports.Locker
	log      *logger.Logger
	pageSize int
}

// NewUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewUseCase(tx ports.TxRunner, repos repository.Repositories, locker ports.Locker, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, locker: locker, log: log, pageSize: DefaultBatchPage}
}

// RecordInTx agrega una fila al libro usando los repositorios de la transacción del llamador.
// No toca el stock del catálogo: eso lo hace quien origina el movimiento.
func RecordInTx(ctx context.Context, repos repository.Repositories, m Movement) (*entity.StockLedgerEntry, error) {
	if err := validateMovement(m); err != nil {
		return nil, err
	}
	qty := money.Quantity(m.Quantity)
	remaining := decimal.Zero
	if qty.IsPositive() {
		remaining = qty
	}
	now := time.Now().UTC()
	txDate := m.TransactionDate
	if txDate.IsZero() {
		txDate = now
	}
	e := &entity.StockLedgerEntry{
		ID:              uuid.New().String(),
		ShopID:          m.ShopID,
		Type:            m.Type,
		ProductID:       m.Target.ProductID,
		VariantID:       m.Target.VariantID,
		BatchNo:         m.BatchNo,
		ExpiryDate:      m.ExpiryDate,
		Quantity:        qty,
		RemainingQty:    remaining,
		UnitCost:        money.Currency(m.UnitCost),
		PurchaseItemID:  m.PurchaseItemID,
		SaleItemID:      m.SaleItemID,
		Reference:       m.Reference,
		TransactionDate: txDate,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       now,
	}
	if err := repos.StockLedger.Append(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func validateMovement(m Movement) error {
	if m.ShopID == "" {
		return domain.Validation("shop_id", "tienda requerida")
	}
	if m.Target.ProductID == "" {
		return domain.Validation("product_id", "producto requerido")
	}
	if m.Quantity.IsZero() {
		return domain.InvalidQuantity("quantity", "la cantidad no puede ser cero")
	}
	if m.UnitCost.IsNegative() {
		return domain.InvalidQuantity("unit_cost", "el costo no puede ser negativo")
	}
	switch m.Type {
	case entity.StockPurchase, entity.StockReturn:
		if m.Quantity.IsNegative() {
			return domain.InvalidQuantity("quantity", "una entrada debe ser positiva")
		}
	case entity.StockSale:
		if m.Quantity.IsPositive() {
			return domain.InvalidQuantity("quantity", "una salida por venta debe ser negativa")
		}
	case entity.StockAdjustment:
	default:
		return domain.Validation("transaction_type", "tipo de movimiento desconocido")
	}
	return nil
}

// Record registra un movimiento y aplica su efecto sobre el stock del catálogo, en una sola unidad de trabajo.
// Una salida que deje el stock negativo falla con InsufficientStock.
func (uc *UseCase) Record(ctx context.Context, m Movement) (*entity.StockLedgerEntry, error) {
	if err := validateMovement(m); err != nil {
		return nil, err
	}
	release, err := uc.locker.Acquire(ctx, inventory.LockKeys(m.ShopID, []entity.StockTarget{m.Target}))
	if err != nil {
		return nil, err
	}
	defer release()

	var entry *entity.StockLedgerEntry
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		holds, err := LockTargets(ctx, repos, m.ShopID, []entity.StockTarget{m.Target}, domain.TargetNotFound)
		if err != nil {
			return err
		}
		delta := money.Quantity(m.Quantity)
		if delta.IsNegative() {
			if err := holds.CheckAvailable(m.Target, delta.Neg()); err != nil {
				return err
			}
		}
		if m.UnitCost.IsZero() {
			m.UnitCost = holds.Cost(m.Target)
		}
		if err := holds.AddStock(ctx, repos, m.Target, delta); err != nil {
			return err
		}
		entry, err = RecordInTx(ctx, repos, m)
		return err
	})
	if err != nil {
		uc.log.ForShop(m.ShopID, "stockledger").Warn().Err(err).Str("product_id", m.Target.ProductID).Msg("movimiento rechazado")
		return nil, domain.Normalize(err)
	}
	uc.log.ForShop(m.ShopID, "stockledger").Info().
		Str("entry_id", entry.ID).
		Str("type", string(entry.Type)).
		Str("quantity", entry.Quantity.String()).
		Msg("movimiento de stock registrado")
	return entry, nil
}

// Adjust ajuste manual o devolución de cliente.
func (uc *UseCase) Adjust(ctx context.Context, shopID, userID string, in dto.StockAdjustmentRequest) (*dto.StockLedgerEntryResponse, error) {
	t := entity.StockTransactionType(in.Type)
	if t != entity.StockAdjustment && t != entity.StockReturn {
		return nil, domain.Validation("type", "solo se admiten ajustes y devoluciones")
	}
	if in.Reason == "" {
		return nil, domain.Validation("reason", "motivo requerido")
	}
	entry, err := uc.Record(ctx, Movement{
		ShopID:     shopID,
		Type:       t,
		Target:     entity.StockTarget{ProductID: in.ProductID, VariantID: in.VariantID},
		BatchNo:    in.BatchNo,
		ExpiryDate: in.ExpiryDate,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Reference:  in.Reason,
		CreatedBy:  userID,
	})
	if err != nil {
		return nil, err
	}
	resp := ToResponse(entry)
	return &resp, nil
}

// BatchesFor recorre los lotes con remaining_qty > 0 en orden (vencimiento, fecha de transacción).
// La secuencia es perezosa (pide páginas a medida que se consume), finita y reiniciable:
// cada range vuelve a empezar desde el primer lote.
func (uc *UseCase) BatchesFor(ctx context.Context, shopID string, target entity.StockTarget) iter.Seq2[*entity.StockLedgerEntry, error] {
	return func(yield func(*entity.StockLedgerEntry, error) bool) {
		var cursor *repository.BatchCursor
		for {
			batch, err := uc.repos.StockLedger.ListBatches(ctx, shopID, target, cursor, uc.pageSize)
			if err != nil {
				yield(nil, domain.Normalize(err))
				return
			}
			for _, e := range batch {
				if !yield(e, nil) {
					return
				}
			}
			if len(batch) < uc.pageSize {
				return
			}
			last := batch[len(batch)-1]
			cursor = &repository.BatchCursor{ExpiryDate: last.ExpiryDate, TransactionDate: last.TransactionDate, ID: last.ID}
		}
	}
}

// Batches materializa BatchesFor (para el endpoint HTTP).
func (uc *UseCase) Batches(ctx context.Context, shopID string, target entity.StockTarget) ([]dto.StockLedgerEntryResponse, error) {
	out := []dto.StockLedgerEntryResponse{}
	for e, err := range uc.BatchesFor(ctx, shopID, target) {
		if err != nil {
			return nil, err
		}
		out = append(out, ToResponse(e))
	}
	return out, nil
}

// History movimientos del destino, del más reciente al más antiguo.
func (uc *UseCase) History(ctx context.Context, shopID string, target entity.StockTarget, page dto.PageRequest) ([]dto.StockLedgerEntryResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.StockLedger.ListByTarget(ctx, shopID, target, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	out := make([]dto.StockLedgerEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ToResponse(e))
	}
	return out, nil
}

// Reconcile compara el stock del catálogo con la suma del libro.
func (uc *UseCase) Reconcile(ctx context.Context, shopID string, target entity.StockTarget) (*dto.ReconcileResponse, error) {
	catalogStock, err := CurrentStock(ctx, uc.repos, shopID, target)
	if err != nil {
		return nil, err
	}
	ledger, err := uc.repos.StockLedger.SumQuantity(ctx, shopID, target)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	drift := catalogStock.Sub(ledger)
	if !drift.IsZero() {
		uc.log.ForShop(shopID, "stockledger").Warn().
			Str("product_id", target.ProductID).
			Str("variant_id", target.VariantID).
			Str("drift", drift.String()).
			Msg("stock del catálogo no coincide con el libro")
	}
	return &dto.ReconcileResponse{
		ProductID:    target.ProductID,
		VariantID:    target.VariantID,
		CatalogStock: catalogStock,
		LedgerStock:  ledger,
		Drift:        drift,
		InSync:       drift.IsZero(),
	}, nil
}

// CurrentStock lee el stock del destino sin bloquear, validando tienda y pertenencia.
func CurrentStock(ctx context.Context, repos repository.Repositories, shopID string, target entity.StockTarget) (decimal.Decimal, error) {
	p, err := repos.Products.GetByID(ctx, target.ProductID)
	if err != nil {
		return decimal.Zero, domain.Normalize(err)
	}
	if p == nil {
		return decimal.Zero, domain.NotFound("product", target.ProductID)
	}
	if p.ShopID != shopID {
		return decimal.Zero, domain.TenantMismatch("product", p.ID)
	}
	if target.VariantID == "" {
		return p.Stock, nil
	}
	v, err := repos.Variants.GetByID(ctx, target.VariantID)
	if err != nil {
		return decimal.Zero, domain.Normalize(err)
	}
	if v == nil || v.ProductID != p.ID {
		return decimal.Zero, domain.NotFound("product_variant", target.VariantID)
	}
	return v.Stock, nil
}

// ToResponse entidad → DTO.
func ToResponse(e *entity.StockLedgerEntry) dto.StockLedgerEntryResponse {
	return dto.StockLedgerEntryResponse{
		ID:              e.ID,
		Type:            string(e.Type),
		ProductID:       e.ProductID,
		VariantID:       e.VariantID,
		BatchNo:         e.BatchNo,
		ExpiryDate:      e.ExpiryDate,
		Quantity:        e.Quantity,
		RemainingQty:    e.RemainingQty,
		UnitCost:        e.UnitCost,
		PurchaseItemID:  e.PurchaseItemID,
		SaleItemID:      e.SaleItemID,
		Reference:       e.Reference,
		TransactionDate: e.TransactionDate,
	}
}
