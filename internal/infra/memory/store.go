// Package memory implementa os mesmos contratos do Postgres inteiramente em
// memória: modo de desenvolvimento sem banco e dublê de teste dos usecases.
// Um único mutex serializa tudo; o Uow tira um snapshot antes de rodar a
// função e restaura no erro, então "tudo ou nada" vale aqui também.
package memory

import (
	"sync"
	"time"

	"github.com/joaovicsa/banco-interface/internal/domain"
)

type Store struct {
	mu           sync.Mutex
	accounts     map[string]*domain.Account
	emails       map[string]string // email -> account id
	transactions map[int64]*domain.Transaction
	order        []int64 // ids na ordem de inserção
	nextTxID     int64
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		emails:       make(map[string]string),
		transactions: make(map[int64]*domain.Transaction),
	}
}

// Tx é o "crachá" que os repositórios recebem via WithTx: indica que o
// mutex do store já está com o Uow, então os métodos não travam de novo.
type Tx struct {
	store *Store
}

// snapshot captura o estado inteiro para rollback. Chamado com o mutex preso.
type snapshot struct {
	accounts     map[string]*domain.Account
	emails       map[string]string
	transactions map[int64]*domain.Transaction
	order        []int64
	nextTxID     int64
}

func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		accounts:     make(map[string]*domain.Account, len(s.accounts)),
		emails:       make(map[string]string, len(s.emails)),
		transactions: make(map[int64]*domain.Transaction, len(s.transactions)),
		order:        append([]int64(nil), s.order...),
		nextTxID:     s.nextTxID,
	}
	for id, a := range s.accounts {
		cp := *a
		snap.accounts[id] = &cp
	}
	for email, id := range s.emails {
		snap.emails[email] = id
	}
	for id, t := range s.transactions {
		cp := *t
		snap.transactions[id] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.emails = snap.emails
	s.transactions = snap.transactions
	s.order = snap.order
	s.nextTxID = snap.nextTxID
}

// now centraliza o timestamp para as duas entidades.
func now() time.Time {
	return time.Now().UTC()
}
