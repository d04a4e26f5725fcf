// Package expense gastos operativos; cada gasto sale de caja en la misma transacción.
package expense

import (
	"context"
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
)

// UseCase casos de uso de gastos.
type UseCase struct {
	tx    ports.TxRunner
	repos repository.Repositories
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos repository.Repositories, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, log: log}
}

// RecordExpense registra el gasto y su débito en caja.
func (uc *UseCase) RecordExpense(ctx context.Context, shopID, userID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.Category == "" {
		return nil, domain.Validation("category", "categoría requerida")
	}
	amount := money.Currency(in.Amount)
	if !amount.IsPositive() {
		return nil, domain.Validation("amount", "el monto debe ser mayor que cero")
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if method == "" {
		method = entity.PaymentCash
	}
	if method == entity.PaymentDue {
		return nil, domain.Validation("payment_method", "un gasto no puede quedar a crédito")
	}

	now := time.Now().UTC()
	e := &entity.Expense{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		Date:          now,
		Category:      in.Category,
		Description:   in.Description,
		Amount:        amount,
		PaymentMethod: method,
		AddedBy:       userID,
		CreatedAt:     now,
	}
	if in.Date != nil {
		e.Date = *in.Date
	}

	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Expenses.Create(ctx, e); err != nil {
			return err
		}
		desc := e.Category
		if e.Description != "" {
			desc += ": " + e.Description
		}
		return cashledger.SyncInTx(ctx, repos, cashledger.Entry{
			ShopID:        shopID,
			Date:          e.Date,
			Type:          entity.CashDebit,
			Source:        entity.SourceExpense,
			Amount:        e.Amount,
			PaymentMethod: method,
			Description:   desc,
			ReferenceID:   e.ID,
			CreatedBy:     userID,
		})
	})
	if err != nil {
		uc.log.ForShop(shopID, "expense").Warn().Err(err).Msg("gasto rechazado")
		return nil, domain.Normalize(err)
	}
	uc.log.ForShop(shopID, "expense").Info().Str("expense_id", e.ID).Str("amount", amount.StringFixed(2)).Msg("gasto registrado")
	resp := toResponse(e)
	return &resp, nil
}

// ListExpenses gastos de la tienda, más recientes primero.
func (uc *UseCase) ListExpenses(ctx context.Context, shopID string, page dto.PageRequest) ([]dto.ExpenseResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Expenses.ListByShop(ctx, shopID, page.Limit, page.Offset)
	if err != nil {
		return nil, domain.Normalize(err)
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toResponse(e))
	}
	return out, nil
}

func toResponse(e *entity.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:            e.ID,
		Date:          e.Date,
		Category:      e.Category,
		Description:   e.Description,
		Amount:        e.Amount,
		PaymentMethod: string(e.PaymentMethod),
		AddedBy:       e.AddedBy,
	}
}
