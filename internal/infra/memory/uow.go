package memory

import (
	"context"

	"github.com/joaovicsa/banco-interface/internal/gateway"
)

// Uow implementa gateway.TransactionManager sobre o store em memória.
// O mutex do store fica preso durante toda a unidade, o que dá a mesma
// garantia de serialização por conta que o FOR UPDATE dá no Postgres
// (mais forte, na verdade: serializa o store inteiro).
type Uow struct {
	store *Store
}

func NewUow(store *Store) *Uow {
	return &Uow{store: store}
}

func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.takeSnapshot()

	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, &Tx{store: u.store})

	if err := fn(ctxWithTx); err != nil {
		u.store.restore(snap) // rollback: nenhum efeito parcial fica visível
		return err
	}
	return nil
}

var _ gateway.TransactionManager = (*Uow)(nil)
