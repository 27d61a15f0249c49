package usecase

import (
	"context"
	"fmt"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
	"github.com/rs/zerolog/log"
)

type ReverseTransactionInput struct {
	AccountID      string
	TransactionID  int64
	OriginalAmount int64
	// Tipo declarado pelo caller; precisa bater com o registro gravado.
	TransactionType domain.TransactionType
}

type ReverseTransactionOutput struct {
	ReversalTransactionID int64
	NewBalance            int64
}

// ReverseTransactionUseCase desfaz o efeito de uma transação já commitada.
// O valor e o tipo enviados pelo caller são apenas conferidos: o delta de
// saldo é sempre derivado do registro gravado, lido sob lock. Reverter uma
// perna de transferência ajusta só a conta iniciadora; a contraparte não
// recebe contrapartida automática.
type ReverseTransactionUseCase struct {
	accountRepository     gateway.AccountRepository
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager
	eventPublisher        gateway.EventPublisher
}

func NewReverseTransaction(
	accountRepo gateway.AccountRepository,
	transactionRepo gateway.TransactionRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *ReverseTransactionUseCase {
	return &ReverseTransactionUseCase{
		accountRepository:     accountRepo,
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

func (u *ReverseTransactionUseCase) Execute(ctx context.Context, input ReverseTransactionInput) (*ReverseTransactionOutput, error) {
	if !input.TransactionType.Valid() {
		return nil, domain.ErrUnknownTransactionType
	}
	if input.TransactionType == domain.TypeReversal {
		return nil, domain.ErrNotReversible
	}
	if input.OriginalAmount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var reversalTx *domain.Transaction

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		accountRepoTx := u.accountRepository.WithTx(transactionObject)
		transactionRepoTx := u.transactionRepository.WithTx(transactionObject)

		// Sempre conta antes de transação: mesma hierarquia de locks em
		// todas as operações, nenhum ciclo possível com as transferências.
		account, err := accountRepoTx.GetByIDForUpdate(contextWithTx, input.AccountID)
		if err != nil {
			return err
		}

		original, err := transactionRepoTx.GetByIDForUpdate(contextWithTx, input.TransactionID)
		if err != nil {
			return err
		}

		// Endurecimento: o caller não manda no delta. Se a transação não é
		// da conta informada, ou o valor/tipo declarados divergem do que
		// está gravado, a reversão é recusada.
		if original.AccountID != account.ID ||
			original.Type != input.TransactionType ||
			original.Amount != input.OriginalAmount {
			return domain.ErrReversalMismatch
		}

		// Check-and-set sob o lock da linha: duas reversões simultâneas da
		// mesma transação nunca passam as duas por aqui.
		if original.Reversed {
			return domain.ErrAlreadyReversed
		}

		delta, err := original.ReversalDelta()
		if err != nil {
			return err
		}

		account.Balance += delta
		if err := accountRepoTx.UpdateBalance(contextWithTx, account.ID, account.Balance); err != nil {
			return fmt.Errorf("falha ao atualizar saldo da conta %s: %w", account.ID, err)
		}

		reversalTx = &domain.Transaction{
			AccountID:        account.ID,
			Type:             domain.TypeReversal,
			Amount:           original.Amount,
			BalanceAfter:     account.Balance,
			Description:      "Reversão de transação",
			RelatedAccountID: original.RelatedAccountID,
			ReversalOf:       &original.ID,
		}
		if err := transactionRepoTx.Create(contextWithTx, reversalTx); err != nil {
			return fmt.Errorf("falha ao registrar reversão: %w", err)
		}

		if err := transactionRepoTx.MarkReversed(contextWithTx, original.ID); err != nil {
			return fmt.Errorf("falha ao marcar transação %d como revertida: %w", original.ID, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.eventPublisher != nil {
		event := map[string]interface{}{
			"transaction_id": reversalTx.ID,
			"reversal_of":    input.TransactionID,
			"account_id":     input.AccountID,
			"type":           string(domain.TypeReversal),
			"amount":         reversalTx.Amount,
			"status":         "reversed",
		}
		if err := u.eventPublisher.Publish(ctx, "ledger_events", "transaction.reversed", event); err != nil {
			log.Error().Err(err).Msg("Falha ao publicar evento de reversão")
		}
	}

	return &ReverseTransactionOutput{
		ReversalTransactionID: reversalTx.ID,
		NewBalance:            reversalTx.BalanceAfter,
	}, nil
}
