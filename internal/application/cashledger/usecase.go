// Package cashledger libro de caja con saldo acumulado por tienda.
package cashledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/ports"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/cash"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/money"
	"github.com/shopspring/decimal"
)

// Entry movimiento a insertar en el libro.
type Entry struct {
	ShopID        string
	Date          time.Time
	Type          entity.CashTransactionType
	Source        entity.CashSource
	Amount        decimal.Decimal
	PaymentMethod entity.PaymentMethod
	Description   string
	ReferenceNo   string
	BankName      string
	ReferenceType entity.CashSource
	ReferenceID   string
	IsManual      bool
	CreatedBy     string
}

// AppendInTx calcula running_balance = saldo anterior ± monto e inserta la fila.
// Toma el bloqueo de caja de la tienda, que se mantiene hasta el fin de la transacción.
func AppendInTx(ctx context.Context, repos repository.Repositories, e Entry) (*entity.CashTransaction, error) {
	if e.ShopID == "" {
		return nil, domain.Validation("shop_id", "tienda requerida")
	}
	if e.Type != entity.CashCredit && e.Type != entity.CashDebit {
		return nil, domain.Validation("transaction_type", "debe ser credit o debit")
	}
	amount := money.Currency(e.Amount)
	if !amount.IsPositive() {
		return nil, domain.Validation("amount", "el monto debe ser mayor que cero")
	}
	if err := repos.Cash.LockShop(ctx, e.ShopID); err != nil {
		return nil, err
	}
	last, err := repos.Cash.Last(ctx, e.ShopID)
	if err != nil {
		return nil, err
	}
	previous := decimal.Zero
	if last != nil {
		previous = last.RunningBalance
	}

	now := time.Now().UTC()
	date := e.Date
	if date.IsZero() {
		date = now
	}
	t := &entity.CashTransaction{
		ID:             uuid.New().String(),
		ShopID:         e.ShopID,
		Date:           date,
		Type:           e.Type,
		Source:         e.Source,
		Amount:         amount,
		RunningBalance: cash.NextBalance(previous, e.Type, amount),
		PaymentMethod:  e.PaymentMethod,
		Description:    e.Description,
		ReferenceNo:    e.ReferenceNo,
		BankName:       e.BankName,
		ReferenceType:  e.ReferenceType,
		ReferenceID:    e.ReferenceID,
		IsManual:       e.IsManual,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      now,
	}
	if err := repos.Cash.Append(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SyncInTx fila sincronizada desde un documento (venta, compra, gasto, abono). Monto cero no genera fila.
func SyncInTx(ctx context.Context, repos repository.Repositories, e Entry) error {
	if money.Currency(e.Amount).IsZero() {
		return nil
	}
	e.IsManual = false
	if e.ReferenceType == "" {
		e.ReferenceType = e.Source
	}
	_, err := AppendInTx(ctx, repos, e)
	return err
}

// UseCase casos de uso del libro de caja.
type UseCase struct {
	tx    ports.TxRunner
	repos repository.Repositories
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos repository.Repositories, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, log: log}
}

// AppendCashEntry movimiento manual (inversión, depósito, retiro, saldo inicial, ajuste).
// Las correcciones se registran como nuevas filas con origen adjustment.
func (uc *UseCase) AppendCashEntry(ctx context.Context, shopID, userID string, in dto.CashEntryRequest) (*dto.CashTransactionResponse, error) {
	if userID == "" {
		return nil, domain.Validation("created_by", "un movimiento manual requiere usuario")
	}
	source := entity.CashSource(in.Source)
	if !cash.ManualSource(source) {
		return nil, domain.Validation("source", "origen no admitido para movimientos manuales")
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if method == "" {
		method = entity.PaymentCash
	}
	entry := Entry{
		ShopID:        shopID,
		Type:          entity.CashTransactionType(in.TransactionType),
		Source:        source,
		Amount:        in.Amount,
		PaymentMethod: method,
		Description:   in.Description,
		ReferenceNo:   in.ReferenceNo,
		BankName:      in.BankName,
		IsManual:      true,
		CreatedBy:     userID,
	}
	if in.Date != nil {
		entry.Date = *in.Date
	}

	var t *entity.CashTransaction
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		var err error
		t, err = AppendInTx(ctx, repos, entry)
		return err
	})
	if err != nil {
		uc.log.ForShop(shopID, "cashledger").Warn().Err(err).Msg("movimiento de caja rechazado")
		return nil, domain.Normalize(err)
	}
	uc.log.ForShop(shopID, "cashledger").Info().
		Str("cash_id", t.ID).
		Str("type", string(t.Type)).
		Str("amount", t.Amount.StringFixed(2)).
		Str("running_balance", t.RunningBalance.StringFixed(2)).
		Msg("movimiento manual registrado")
	resp := ToResponse(t)
	return &resp, nil
}

// CurrentBalance créditos - débitos de la tienda, sin usar running_balance.
func (uc *UseCase) CurrentBalance(ctx context.Context, shopID string) (decimal.Decimal, error) {
	sum, err := uc.repos.Cash.SumBalance(ctx, shopID)
	if err != nil {
		return decimal.Zero, domain.Normalize(err)
	}
	return money.Currency(sum), nil
}

// VerifyBalance compara la suma con el running_balance de la última fila.
func (uc *UseCase) VerifyBalance(ctx context.Context, shopID string) (*dto.CashBalanceResponse, error) {
	sum, err := uc.CurrentBalance(ctx, shopID)
	if err != nil {
		return nil, err
	}
	last, err := uc.repos.Cash.Last(ctx, shopID)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	stored := decimal.Zero
	if last != nil {
		stored = last.RunningBalance
	}
	inSync := sum.Equal(stored)
	if !inSync {
		uc.log.ForShop(shopID, "cashledger").Error().
			Str("balance", sum.StringFixed(2)).
			Str("stored_balance", stored.StringFixed(2)).
			Msg("saldo de caja descuadrado")
	}
	return &dto.CashBalanceResponse{Balance: sum, StoredBalance: stored, InSync: inSync}, nil
}

// List movimientos en orden de inserción, opcionalmente entre fechas.
func (uc *UseCase) List(ctx context.Context, shopID string, q dto.CashListQuery) ([]dto.CashTransactionResponse, error) {
	q.DefaultPage()
	list, err := uc.repos.Cash.List(ctx, shopID, q.From, q.To, q.Limit, q.Offset)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	out := make([]dto.CashTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToResponse(t))
	}
	return out, nil
}

// ToResponse entidad → DTO.
func ToResponse(t *entity.CashTransaction) dto.CashTransactionResponse {
	return dto.CashTransactionResponse{
		ID:             t.ID,
		Date:           t.Date,
		Type:           string(t.Type),
		Source:         string(t.Source),
		Amount:         t.Amount,
		RunningBalance: t.RunningBalance,
		PaymentMethod:  string(t.PaymentMethod),
		Description:    t.Description,
		ReferenceNo:    t.ReferenceNo,
		ReferenceType:  string(t.ReferenceType),
		ReferenceID:    t.ReferenceID,
		IsManual:       t.IsManual,
		CreatedBy:      t.CreatedBy,
	}
}
