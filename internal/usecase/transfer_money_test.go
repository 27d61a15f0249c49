package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferMoney(t *testing.T) {
	newUC := func(env *testEnv) *usecase.TransferMoneyUseCase {
		return usecase.NewTransferMoney(env.accounts, env.transactions, env.uow, nil)
	}

	t.Run("debita, credita e grava as duas pernas com contraparte", func(t *testing.T) {
		env := newTestEnv()
		sender := env.createAccount(t, "Ana", "ana@example.com", 1000)
		recipient := env.createAccount(t, "Bruno", "bruno@example.com", 500)

		output, err := newUC(env).Execute(context.Background(), usecase.TransferMoneyInput{
			SenderID:       sender.ID,
			SenderEmail:    sender.Email,
			RecipientEmail: recipient.Email,
			Amount:         200,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(800), output.NewSenderBalance)

		assert.Equal(t, int64(800), env.balanceOf(t, sender.ID))
		assert.Equal(t, int64(700), env.balanceOf(t, recipient.ID))

		senderHistory := env.historyOf(t, sender.ID)
		require.Len(t, senderHistory, 1)
		assert.Equal(t, domain.TypeTransferSent, senderHistory[0].Type)
		assert.Equal(t, int64(200), senderHistory[0].Amount)
		assert.Equal(t, int64(800), senderHistory[0].BalanceAfter)
		require.NotNil(t, senderHistory[0].RelatedAccountID)
		assert.Equal(t, recipient.ID, *senderHistory[0].RelatedAccountID)

		recipientHistory := env.historyOf(t, recipient.ID)
		require.Len(t, recipientHistory, 1)
		assert.Equal(t, domain.TypeTransferReceived, recipientHistory[0].Type)
		assert.Equal(t, int64(700), recipientHistory[0].BalanceAfter)
		require.NotNil(t, recipientHistory[0].RelatedAccountID)
		assert.Equal(t, sender.ID, *recipientHistory[0].RelatedAccountID)
	})

	t.Run("auto-transferência sempre falha sem mudar estado", func(t *testing.T) {
		env := newTestEnv()
		sender := env.createAccount(t, "Ana", "ana@example.com", 1000)

		_, err := newUC(env).Execute(context.Background(), usecase.TransferMoneyInput{
			SenderID:       sender.ID,
			SenderEmail:    sender.Email,
			RecipientEmail: "ANA@example.com", // normalização não pode deixar passar
			Amount:         100,
		})
		assert.ErrorIs(t, err, domain.ErrSelfTransfer)
		assert.Equal(t, int64(1000), env.balanceOf(t, sender.ID))
		assert.Empty(t, env.historyOf(t, sender.ID))
	})

	t.Run("auto-transferência com senderEmail mentiroso também falha", func(t *testing.T) {
		env := newTestEnv()
		sender := env.createAccount(t, "Ana", "ana@example.com", 1000)

		_, err := newUC(env).Execute(context.Background(), usecase.TransferMoneyInput{
			SenderID:       sender.ID,
			SenderEmail:    "outra@example.com",
			RecipientEmail: sender.Email,
			Amount:         100,
		})
		assert.ErrorIs(t, err, domain.ErrSelfTransfer)
		assert.Equal(t, int64(1000), env.balanceOf(t, sender.ID))
	})

	t.Run("saldo insuficiente falha sem efeito parcial", func(t *testing.T) {
		env := newTestEnv()
		sender := env.createAccount(t, "Ana", "ana@example.com", 100)
		recipient := env.createAccount(t, "Bruno", "bruno@example.com", 0)

		_, err := newUC(env).Execute(context.Background(), usecase.TransferMoneyInput{
			SenderID:       sender.ID,
			SenderEmail:    sender.Email,
			RecipientEmail: recipient.Email,
			Amount:         101,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		assert.Equal(t, int64(100), env.balanceOf(t, sender.ID))
		assert.Equal(t, int64(0), env.balanceOf(t, recipient.ID))
		assert.Empty(t, env.historyOf(t, sender.ID))
		assert.Empty(t, env.historyOf(t, recipient.ID))
	})

	t.Run("erros de pré-condição na ordem esperada", func(t *testing.T) {
		env := newTestEnv()
		sender := env.createAccount(t, "Ana", "ana@example.com", 1000)

		tests := []struct {
			name  string
			input usecase.TransferMoneyInput
			want  error
		}{
			{
				name: "valor inválido vem antes de tudo",
				input: usecase.TransferMoneyInput{
					SenderID:       "nem-olha",
					SenderEmail:    "a@example.com",
					RecipientEmail: "a@example.com",
					Amount:         0,
				},
				want: domain.ErrInvalidAmount,
			},
			{
				name: "remetente inexistente",
				input: usecase.TransferMoneyInput{
					SenderID:       "nao-existe",
					SenderEmail:    "x@example.com",
					RecipientEmail: "y@example.com",
					Amount:         10,
				},
				want: domain.ErrAccountNotFound,
			},
			{
				name: "destinatário inexistente",
				input: usecase.TransferMoneyInput{
					SenderID:       sender.ID,
					SenderEmail:    sender.Email,
					RecipientEmail: "fantasma@example.com",
					Amount:         10,
				},
				want: domain.ErrRecipientNotFound,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := newUC(env).Execute(context.Background(), tt.input)
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("transferências concorrentes em sentidos opostos", func(t *testing.T) {
		env := newTestEnv()
		a := env.createAccount(t, "Ana", "ana@example.com", 1000)
		b := env.createAccount(t, "Bruno", "bruno@example.com", 1000)
		uc := newUC(env)

		const rounds = 10
		var wg sync.WaitGroup
		for i := 0; i < rounds; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, err := uc.Execute(context.Background(), usecase.TransferMoneyInput{
					SenderID: a.ID, SenderEmail: a.Email, RecipientEmail: b.Email, Amount: 10,
				})
				assert.NoError(t, err)
			}()
			go func() {
				defer wg.Done()
				_, err := uc.Execute(context.Background(), usecase.TransferMoneyInput{
					SenderID: b.ID, SenderEmail: b.Email, RecipientEmail: a.Email, Amount: 10,
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		// O dinheiro só troca de mãos: a soma e os saldos finais são exatos.
		assert.Equal(t, int64(1000), env.balanceOf(t, a.ID))
		assert.Equal(t, int64(1000), env.balanceOf(t, b.ID))
	})
}
