package gateway

import (
	"context"

	"github.com/joaovicsa/banco-interface/internal/domain"
)

type TransactionRepository interface {
	// Create insere a transação e preenche ID/CreatedAt gerados pelo banco.
	Create(ctx context.Context, transaction *domain.Transaction) error

	// GetByIDForUpdate trava a linha da transação (check-and-set da flag
	// reversed precisa acontecer sob o mesmo lock).
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Transaction, error)

	// MarkReversed liga a flag reversed do registro original.
	MarkReversed(ctx context.Context, id int64) error

	// ListByAccount retorna as transações mais recentes da conta,
	// ordenadas por created_at descendente, no máximo limit linhas.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)

	// WithTx segue o mesmo padrão do AccountRepository para participar
	// da transação atômica
	WithTx(tx TransactionObject) TransactionRepository
}
