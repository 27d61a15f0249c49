package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/gateway"
	"github.com/rs/zerolog/log"
)

// TransferMoneyInput define os dados necessários para realizar uma transferência.
// Usamos DTOs para não acoplar a API HTTP ao UseCase.
type TransferMoneyInput struct {
	SenderID       string
	SenderEmail    string // identidade declarada, usada só para barrar auto-transferência
	RecipientEmail string
	Amount         int64 // Valor em centavos (ex: 1000 = R$ 10,00)
}

type TransferMoneyOutput struct {
	SentTransactionID     int64
	ReceivedTransactionID int64
	NewSenderBalance      int64
}

// TransferMoneyUseCase move fundos entre duas contas distintas:
// débito no remetente, crédito no destinatário e duas linhas de histórico
// ligadas entre si, tudo ou nada.
type TransferMoneyUseCase struct {
	accountRepository     gateway.AccountRepository
	transactionRepository gateway.TransactionRepository
	transactionManager    gateway.TransactionManager // Nosso "Unit of Work"
	eventPublisher        gateway.EventPublisher
}

func NewTransferMoney(
	accountRepo gateway.AccountRepository,
	transactionRepo gateway.TransactionRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *TransferMoneyUseCase {
	return &TransferMoneyUseCase{
		accountRepository:     accountRepo,
		transactionRepository: transactionRepo,
		transactionManager:    txManager,
		eventPublisher:        publisher,
	}
}

// Execute roda a lógica de negócio. Ordem das pré-condições: valor válido,
// destinatário diferente do remetente, remetente existe, destinatário
// existe, saldo suficiente.
func (u *TransferMoneyUseCase) Execute(ctx context.Context, input TransferMoneyInput) (*TransferMoneyOutput, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	senderEmail := strings.TrimSpace(strings.ToLower(input.SenderEmail))
	recipientEmail := strings.TrimSpace(strings.ToLower(input.RecipientEmail))
	if recipientEmail == senderEmail {
		return nil, domain.ErrSelfTransfer
	}

	var (
		sentTx     *domain.Transaction
		receivedTx *domain.Transaction
		recipient  *domain.Account
	)

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		accountRepoTx := u.accountRepository.WithTx(transactionObject)
		transactionRepoTx := u.transactionRepository.WithTx(transactionObject)

		// Resolução prévia (sem lock) só para descobrir os IDs e validar
		// existência na ordem exigida pelas pré-condições.
		sender, err := accountRepoTx.GetByID(contextWithTx, input.SenderID)
		if err != nil {
			return err
		}

		var errRecipient error
		recipient, errRecipient = accountRepoTx.GetByEmail(contextWithTx, recipientEmail)
		if errRecipient != nil {
			if errors.Is(errRecipient, domain.ErrAccountNotFound) {
				return domain.ErrRecipientNotFound
			}
			return errRecipient
		}

		// E-mail é único, mas o senderEmail vem do caller: se ele mentiu e
		// o destinatário resolvido é a própria conta, ainda é auto-transferência.
		if recipient.ID == sender.ID {
			return domain.ErrSelfTransfer
		}

		// Ordenação de IDs para evitar deadlock entre transferências
		// simultâneas em sentidos opostos: ambas travam sempre o menor
		// ID primeiro.
		firstID, secondID := sender.ID, recipient.ID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}

		// Lock nas contas (SELECT ... FOR UPDATE). O banco trava essas
		// linhas e os saldos relidos aqui são os definitivos.
		lockedFirst, err := accountRepoTx.GetByIDForUpdate(contextWithTx, firstID)
		if err != nil {
			return fmt.Errorf("falha ao travar conta %s: %w", firstID, err)
		}
		lockedSecond, err := accountRepoTx.GetByIDForUpdate(contextWithTx, secondID)
		if err != nil {
			return fmt.Errorf("falha ao travar conta %s: %w", secondID, err)
		}

		if lockedFirst.ID == sender.ID {
			sender, recipient = lockedFirst, lockedSecond
		} else {
			sender, recipient = lockedSecond, lockedFirst
		}

		// Débito (quem envia): valida o saldo já sob lock.
		if err := sender.Debit(input.Amount); err != nil {
			return err
		}
		// Crédito (quem recebe)
		if err := recipient.Credit(input.Amount); err != nil {
			return err
		}

		if err := accountRepoTx.UpdateBalance(contextWithTx, sender.ID, sender.Balance); err != nil {
			return fmt.Errorf("falha no débito (origem %s): %w", sender.ID, err)
		}
		if err := accountRepoTx.UpdateBalance(contextWithTx, recipient.ID, recipient.Balance); err != nil {
			return fmt.Errorf("falha no crédito (destino %s): %w", recipient.ID, err)
		}

		// Duas linhas de histórico, cada uma apontando para a contraparte.
		sentTx = &domain.Transaction{
			AccountID:        sender.ID,
			Type:             domain.TypeTransferSent,
			Amount:           input.Amount,
			BalanceAfter:     sender.Balance,
			Description:      fmt.Sprintf("Transferência para %s", recipientEmail),
			RelatedAccountID: &recipient.ID,
		}
		if err := transactionRepoTx.Create(contextWithTx, sentTx); err != nil {
			return fmt.Errorf("falha ao salvar histórico da transferência enviada: %w", err)
		}

		receivedTx = &domain.Transaction{
			AccountID:        recipient.ID,
			Type:             domain.TypeTransferReceived,
			Amount:           input.Amount,
			BalanceAfter:     recipient.Balance,
			Description:      fmt.Sprintf("Transferência recebida de %s", senderEmail),
			RelatedAccountID: &sender.ID,
		}
		if err := transactionRepoTx.Create(contextWithTx, receivedTx); err != nil {
			return fmt.Errorf("falha ao salvar histórico da transferência recebida: %w", err)
		}

		return nil // Sucesso! O Commit será executado agora.
	})
	if err != nil {
		return nil, err
	}

	if u.eventPublisher != nil {
		event := map[string]interface{}{
			"transaction_id": sentTx.ID,
			"account_id":     input.SenderID,
			"related_id":     recipient.ID,
			"type":           string(domain.TypeTransferSent),
			"amount":         input.Amount,
			"status":         "completed",
		}
		if err := u.eventPublisher.Publish(ctx, "ledger_events", "transaction.created", event); err != nil {
			log.Error().Err(err).Msg("Falha ao publicar evento de transferência")
		}
	}

	return &TransferMoneyOutput{
		SentTransactionID:     sentTx.ID,
		ReceivedTransactionID: receivedTx.ID,
		NewSenderBalance:      sentTx.BalanceAfter,
	}, nil
}
