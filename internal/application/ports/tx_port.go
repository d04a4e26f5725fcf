package ports

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a ella.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad de cada unidad de trabajo.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
