package gateway

import "context"

// TransactionObject é o "crachá" opaco que carrega a transação do banco.
// Para Postgres é um pgx.Tx; para o store em memória é um marcador próprio.
type TransactionObject interface{}

// TransactionManager define quem sabe iniciar/comitar transações (Unit of Work).
// Run executa fn dentro de uma unidade atômica: erro => rollback, nil => commit.
type TransactionManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionKeyType evita colisão de chaves no contexto
type TransactionKeyType string

const TransactionKey TransactionKeyType = "transaction"
