package domain

import "errors"

// Erros de validação: rejeitados antes de qualquer efeito no banco.
var (
	ErrInvalidAmount          = errors.New("transaction amount must be greater than zero")
	ErrMissingFields          = errors.New("name and email are required")
	ErrSelfTransfer           = errors.New("cannot transfer to your own account")
	ErrNotReversible          = errors.New("a reversal cannot be reversed")
	ErrReversalMismatch       = errors.New("reversal request does not match the stored transaction")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// Erros de "não encontrado".
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrRecipientNotFound   = errors.New("recipient account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Erros de conflito: o estado atual da conta impede a operação.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyReversed   = errors.New("transaction already reversed")
	ErrEmailTaken        = errors.New("email already registered")
)
