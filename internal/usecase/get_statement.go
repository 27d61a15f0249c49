package usecase

import (
	"context"
	"fmt"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
)

// statementMaxLimit limita o tamanho da página do extrato.
const statementMaxLimit = 50

type GetStatementInput struct {
	AccountID string
	Limit     int // <= 0 usa o máximo (50)
}

type GetStatementOutput struct {
	Account      *domain.Account
	Transactions []domain.Transaction
	// RelatedNames mapeia related_account_id -> nome, resolvido em lote
	// sobre os IDs distintos da página retornada.
	RelatedNames map[string]string
}

// GetStatementUseCase é a projeção de leitura: saldo atual + transações
// mais recentes. Nunca altera estado.
type GetStatementUseCase struct {
	accountRepository     gateway.AccountRepository
	transactionRepository gateway.TransactionRepository
}

func NewGetStatement(
	accountRepo gateway.AccountRepository,
	transactionRepo gateway.TransactionRepository,
) *GetStatementUseCase {
	return &GetStatementUseCase{
		accountRepository:     accountRepo,
		transactionRepository: transactionRepo,
	}
}

func (u *GetStatementUseCase) Execute(ctx context.Context, input GetStatementInput) (*GetStatementOutput, error) {
	limit := input.Limit
	if limit <= 0 || limit > statementMaxLimit {
		limit = statementMaxLimit
	}

	account, err := u.accountRepository.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	transactions, err := u.transactionRepository.ListByAccount(ctx, account.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar transações da conta %s: %w", account.ID, err)
	}

	// IDs distintos de contraparte presentes na página.
	seen := make(map[string]struct{})
	var relatedIDs []string
	for i := range transactions {
		related := transactions[i].RelatedAccountID
		if related == nil {
			continue
		}
		if _, ok := seen[*related]; ok {
			continue
		}
		seen[*related] = struct{}{}
		relatedIDs = append(relatedIDs, *related)
	}

	relatedNames := map[string]string{}
	if len(relatedIDs) > 0 {
		relatedNames, err = u.accountRepository.ListNamesByIDs(ctx, relatedIDs)
		if err != nil {
			return nil, fmt.Errorf("falha ao resolver nomes das contrapartes: %w", err)
		}
	}

	return &GetStatementOutput{
		Account:      account,
		Transactions: transactions,
		RelatedNames: relatedNames,
	}, nil
}
