package memory

import (
	"context"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
)

type AccountRepository struct {
	store *Store
	inTx  bool // mutex já está com o Uow; não travar de novo
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	defer r.lock()()

	if _, exists := r.store.emails[account.Email]; exists {
		return domain.ErrEmailTaken
	}
	ts := now()
	account.CreatedAt = ts
	account.UpdatedAt = ts

	cp := *account
	r.store.accounts[account.ID] = &cp
	r.store.emails[account.Email] = account.ID
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	defer r.lock()()
	return r.getLocked(id)
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	defer r.lock()()

	id, ok := r.store.emails[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return r.getLocked(id)
}

// GetByIDForUpdate é igual ao GetByID aqui: dentro do Uow o store inteiro
// já está serializado, o "lock de linha" vem de graça.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) UpdateBalance(_ context.Context, id string, balance int64) error {
	defer r.lock()()

	account, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = balance
	account.UpdatedAt = now()
	return nil
}

func (r *AccountRepository) ListNamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	defer r.lock()()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if account, ok := r.store.accounts[id]; ok {
			names[id] = account.Name
		}
	}
	return names, nil
}

func (r *AccountRepository) WithTx(tx gateway.TransactionObject) gateway.AccountRepository {
	memTx, ok := tx.(*Tx)
	if !ok || memTx.store != r.store {
		return r
	}
	return &AccountRepository{store: r.store, inTx: true}
}

// getLocked devolve uma cópia para o caller não alterar o estado interno
// por fora do repositório.
func (r *AccountRepository) getLocked(id string) (*domain.Account, error) {
	account, ok := r.store.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

var _ gateway.AccountRepository = (*AccountRepository)(nil)
