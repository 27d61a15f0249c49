package usecase

import (
	"context"
	"fmt"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
	"github.com/rs/zerolog/log"
)

type DepositInput struct {
	AccountID string
	Amount    int64 // Valor em centavos (ex: 1000 = R$ 10,00)
}

type DepositOutput struct {
	TransactionID int64
	NewBalance    int64
}

// DepositUseCase credita valor em uma única conta e registra a transação
// correspondente, tudo dentro da mesma unidade atômica.
type DepositUseCase struct {
	accountRepository     gateway.AccountRepository
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
}

func NewDeposit(
	accountRepo gateway.AccountRepository,
	transactionRepo gateway.TransactionRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *DepositUseCase {
	return &DepositUseCase{
		accountRepository:     accountRepo,
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

func (u *DepositUseCase) Execute(ctx context.Context, input DepositInput) (*DepositOutput, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var createdTransaction *domain.Transaction

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		accountRepoTx := u.accountRepository.WithTx(transactionObject)
		transactionRepoTx := u.transactionRepository.WithTx(transactionObject)

		// Lock na linha da conta: o saldo lido aqui é o saldo vigente,
		// ninguém mais mexe nele até o commit. Nada de ler saldo fora
		// do lock e gravar depois.
		account, err := accountRepoTx.GetByIDForUpdate(contextWithTx, input.AccountID)
		if err != nil {
			return err
		}

		if err := account.Credit(input.Amount); err != nil {
			return err
		}

		if err := accountRepoTx.UpdateBalance(contextWithTx, account.ID, account.Balance); err != nil {
			return fmt.Errorf("falha ao atualizar saldo da conta %s: %w", account.ID, err)
		}

		createdTransaction = &domain.Transaction{
			AccountID:    account.ID,
			Type:         domain.TypeDeposit,
			Amount:       input.Amount,
			BalanceAfter: account.Balance,
			Description:  "Depósito realizado",
		}
		if err := transactionRepoTx.Create(contextWithTx, createdTransaction); err != nil {
			return fmt.Errorf("falha ao registrar transação de depósito: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.eventPublisher != nil {
		event := map[string]interface{}{
			"transaction_id": createdTransaction.ID,
			"account_id":     input.AccountID,
			"type":           string(domain.TypeDeposit),
			"amount":         input.Amount,
			"status":         "completed",
		}
		// Falha de evento não derruba o depósito já commitado.
		if err := u.eventPublisher.Publish(ctx, "ledger_events", "transaction.deposited", event); err != nil {
			log.Error().Err(err).Msg("Falha ao publicar evento de depósito")
		}
	}

	return &DepositOutput{
		TransactionID: createdTransaction.ID,
		NewBalance:    createdTransaction.BalanceAfter,
	}, nil
}
