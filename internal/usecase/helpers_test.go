package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
	"github.com/joaovicsa/banco-interface/internal/infra/memory"
	"github.com/stretchr/testify/require"
)

// testEnv monta os usecases sobre o store em memória, que dá as mesmas
// garantias de atomicidade/serialização do Postgres real.
type testEnv struct {
	store        *memory.Store
	accounts     gateway.AccountRepository
	transactions gateway.TransactionRepository
	uow          gateway.TransactionManager
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	return &testEnv{
		store:        store,
		accounts:     memory.NewAccountRepository(store),
		transactions: memory.NewTransactionRepository(store),
		uow:          memory.NewUow(store),
	}
}

func (e *testEnv) createAccount(t *testing.T, name, email string, balance int64) *domain.Account {
	t.Helper()

	account := &domain.Account{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}
	require.NoError(t, e.accounts.Create(context.Background(), account))
	if balance != 0 {
		require.NoError(t, e.accounts.UpdateBalance(context.Background(), account.ID, balance))
		account.Balance = balance
	}
	return account
}

func (e *testEnv) balanceOf(t *testing.T, id string) int64 {
	t.Helper()

	account, err := e.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func (e *testEnv) historyOf(t *testing.T, id string) []domain.Transaction {
	t.Helper()

	transactions, err := e.transactions.ListByAccount(context.Background(), id, 50)
	require.NoError(t, err)
	return transactions
}
