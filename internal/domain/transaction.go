package domain

import "time"

// TransactionType identifica a direção do movimento no extrato.
type TransactionType string

const (
	TypeDeposit          TransactionType = "deposit"
	TypeTransferSent     TransactionType = "transfer_sent"
	TypeTransferReceived TransactionType = "transfer_received"
	TypeReversal         TransactionType = "reversal"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeTransferSent, TypeTransferReceived, TypeReversal:
		return true
	}
	return false
}

// Transaction é uma linha imutável do histórico da conta.
// Depois de gravada, o único campo que muda é a flag Reversed do
// registro original, marcada quando alguém reverte a transação.
type Transaction struct {
	ID               int64
	AccountID        string
	Type             TransactionType
	Amount           int64 // magnitude positiva, em centavos; direção vem do Type
	BalanceAfter     int64 // snapshot do saldo logo após aplicar esta transação
	Description      string
	RelatedAccountID *string // contraparte (transferências) ou conta da transação revertida
	ReversalOf       *int64  // preenchido apenas quando Type == reversal
	Reversed         bool
	CreatedAt        time.Time
}

// ReversalDelta calcula o ajuste de saldo necessário para desfazer esta
// transação. Uma reversão nunca pode ser revertida (sem reversão encadeada).
func (t *Transaction) ReversalDelta() (int64, error) {
	switch t.Type {
	case TypeDeposit:
		return -t.Amount, nil
	case TypeTransferSent:
		return t.Amount, nil
	case TypeTransferReceived:
		return -t.Amount, nil
	case TypeReversal:
		return 0, ErrNotReversible
	default:
		return 0, ErrUnknownTransactionType
	}
}
