package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier é o mínimo que os repositórios precisam do pgx.
// Tanto *pgxpool.Pool quanto pgx.Tx satisfazem a interface, então o mesmo
// repositório funciona fora e dentro de uma transação (padrão WithTx).
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
