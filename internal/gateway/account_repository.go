package gateway

import (
	"context"

	"github.com/joaovicsa/banco-interface/internal/domain"
)

// AccountRepository define o contrato de persistência de contas.
// O usecase só interage com isso, sem saber se é Postgres ou memória.
type AccountRepository interface {
	// Create persiste uma conta nova (saldo zero); ErrEmailTaken se o
	// e-mail já estiver cadastrado.
	Create(ctx context.Context, account *domain.Account) error

	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// Lock pessimista: retorna a conta travando a linha no banco
	// (SELECT ... FOR UPDATE). Só faz sentido dentro de uma transação.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Account, error)

	// UpdateBalance grava o saldo já calculado pelo usecase, que leu a
	// conta sob lock na mesma transação.
	UpdateBalance(ctx context.Context, id string, balance int64) error

	// ListNamesByIDs resolve nomes de contas em lote (extrato).
	ListNamesByIDs(ctx context.Context, ids []string) (map[string]string, error)

	// WithTx retorna uma instância do repositório ligada àquela transação.
	WithTx(tx TransactionObject) AccountRepository
}
