package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
)

type CreateAccountInput struct {
	Name  string
	Email string
}

type CreateAccountOutput struct {
	ID      string
	Name    string
	Email   string
	Balance int64
}

type CreateAccountUseCase struct {
	accountRepository gateway.AccountRepository
}

func NewCreateAccount(accountRepo gateway.AccountRepository) *CreateAccountUseCase {
	return &CreateAccountUseCase{
		accountRepository: accountRepo,
	}
}

// Execute cadastra uma conta nova com saldo zero. A camada de identidade
// (fora do core) é quem autentica; aqui só garantimos e-mail único.
func (uc *CreateAccountUseCase) Execute(ctx context.Context, input CreateAccountInput) (*CreateAccountOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if name == "" || email == "" {
		return nil, domain.ErrMissingFields
	}

	account := &domain.Account{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Balance: 0,
	}

	// A criação é um insert único, não precisa de Unit of Work.
	// A unicidade do e-mail fica por conta do índice único do banco.
	if err := uc.accountRepository.Create(ctx, account); err != nil {
		return nil, err
	}

	return &CreateAccountOutput{
		ID:      account.ID,
		Name:    account.Name,
		Email:   account.Email,
		Balance: account.Balance,
	}, nil
}
