package domain

import (
	"time"
)

// Account representa a conta do usuário (identidade + saldo).
// Clean Architecture: Esta entidade não sabe o que é JSON nem SQL.
type Account struct {
	ID        string // UUID gerado no cadastro
	Name      string
	Email     string // único no sistema inteiro
	Balance   int64  // Valor em centavos (ex: 1000 = R$ 10,00)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Métodos de domínio (Lógica pura)

// HasSufficientFunds valida se a conta pode pagar antes mesmo de tocar no DB
func (a *Account) HasSufficientFunds(amount int64) bool {
	return a.Balance >= amount
}

func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !a.HasSufficientFunds(amount) {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}

func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.Balance += amount
	return nil
}
