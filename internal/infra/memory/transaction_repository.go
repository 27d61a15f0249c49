package memory

import (
	"context"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
)

type TransactionRepository struct {
	store *Store
	inTx  bool
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *TransactionRepository) Create(_ context.Context, transaction *domain.Transaction) error {
	defer r.lock()()

	r.store.nextTxID++
	transaction.ID = r.store.nextTxID
	transaction.CreatedAt = now()

	cp := *transaction
	r.store.transactions[cp.ID] = &cp
	r.store.order = append(r.store.order, cp.ID)
	return nil
}

func (r *TransactionRepository) GetByIDForUpdate(_ context.Context, id int64) (*domain.Transaction, error) {
	defer r.lock()()

	transaction, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	cp := *transaction
	return &cp, nil
}

func (r *TransactionRepository) MarkReversed(_ context.Context, id int64) error {
	defer r.lock()()

	transaction, ok := r.store.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	transaction.Reversed = true
	return nil
}

func (r *TransactionRepository) ListByAccount(_ context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	defer r.lock()()

	// Mais recente primeiro: a ordem de inserção é a ordem cronológica,
	// então basta varrer de trás para frente.
	var transactions []domain.Transaction
	for i := len(r.store.order) - 1; i >= 0 && len(transactions) < limit; i-- {
		transaction := r.store.transactions[r.store.order[i]]
		if transaction.AccountID != accountID {
			continue
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, nil
}

func (r *TransactionRepository) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	memTx, ok := tx.(*Tx)
	if !ok || memTx.store != r.store {
		return r
	}
	return &TransactionRepository{store: r.store, inTx: true}
}

var _ gateway.TransactionRepository = (*TransactionRepository)(nil)
