package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
)

const transactionColumns = `id, account_id, type, amount, balance_after,
	description, related_account_id, reversal_of, reversed, created_at`

type TransactionRepository struct {
	db Querier
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: pool}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	const query = `
		INSERT INTO transactions
			(account_id, type, amount, balance_after, description, related_account_id, reversal_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	var createdAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, query,
		transaction.AccountID,
		string(transaction.Type),
		transaction.Amount,
		transaction.BalanceAfter,
		transaction.Description,
		textToPgType(transaction.RelatedAccountID),
		int8ToPgType(transaction.ReversalOf),
	).Scan(&transaction.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	transaction.CreatedAt = createdAt.Time
	return nil
}

// GetByIDForUpdate trava a linha: a checagem da flag reversed e o set
// posterior acontecem sob o mesmo lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	transaction, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}
	return transaction, nil
}

func (r *TransactionRepository) MarkReversed(ctx context.Context, id int64) error {
	const query = `UPDATE transactions SET reversed = true WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark transaction reversed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	// Desempate por id: created_at pode colidir dentro da mesma transação.
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

// WithTx segue o mesmo padrão do AccountRepository para participar da transação atômica
func (r *TransactionRepository) WithTx(tx gateway.TransactionObject) gateway.TransactionRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &TransactionRepository{db: pgTx}
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		txType      string
		related     pgtype.Text
		reversalOf  pgtype.Int8
		createdAt   pgtype.Timestamptz
	)
	err := row.Scan(
		&transaction.ID,
		&transaction.AccountID,
		&txType,
		&transaction.Amount,
		&transaction.BalanceAfter,
		&transaction.Description,
		&related,
		&reversalOf,
		&transaction.Reversed,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	transaction.Type = domain.TransactionType(txType)
	transaction.CreatedAt = createdAt.Time
	if related.Valid {
		transaction.RelatedAccountID = &related.String
	}
	if reversalOf.Valid {
		transaction.ReversalOf = &reversalOf.Int64
	}
	return &transaction, nil
}

// Helpers: ponteiros do domínio -> pgtype (colunas anuláveis)
func textToPgType(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func int8ToPgType(i *int64) pgtype.Int8 {
	if i == nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: *i, Valid: true}
}

var _ gateway.TransactionRepository = (*TransactionRepository)(nil)
