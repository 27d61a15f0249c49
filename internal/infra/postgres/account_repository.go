package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
)

// uniqueViolation é o código de erro do Postgres para índice único.
const uniqueViolation = "23505"

// AccountRepository implementa gateway.AccountRepository usando pgx/v5
type AccountRepository struct {
	db Querier
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: pool}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
		INSERT INTO accounts (id, name, email, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, query, account.ID, account.Name, account.Email, account.Balance).
		Scan(&createdAt, &updatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
		SELECT id, name, email, balance, created_at, updated_at
		FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
		SELECT id, name, email, balance, created_at, updated_at
		FROM accounts WHERE email = $1`
	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

// GetByIDForUpdate trava a linha da conta até o fim da transação corrente.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
		SELECT id, name, email, balance, created_at, updated_at
		FROM accounts WHERE id = $1
		FOR UPDATE`
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, id string, balance int64) error {
	const query = `UPDATE accounts SET balance = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, balance)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) ListNamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	const query = `SELECT id, name FROM accounts WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list account names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan account name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// WithTx retorna uma cópia do repositório usando uma transação específica
func (r *AccountRepository) WithTx(tx gateway.TransactionObject) gateway.AccountRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &AccountRepository{db: pgTx}
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account              domain.Account
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&account.ID, &account.Name, &account.Email, &account.Balance, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	return &account, nil
}

var _ gateway.AccountRepository = (*AccountRepository)(nil)
