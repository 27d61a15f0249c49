package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/usecase"
	"github.com/rs/zerolog/log"
)

type DepositHandler struct {
	depositUseCase *usecase.DepositUseCase
}

func NewDepositHandler(uc *usecase.DepositUseCase) *DepositHandler {
	return &DepositHandler{depositUseCase: uc}
}

type CreateDepositRequest struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"` // Valor em centavos
}

type CreateDepositResponse struct {
	TransactionID int64 `json:"transaction_id"`
	NewBalance    int64 `json:"new_balance"`
}

func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.depositUseCase.Execute(r.Context(), usecase.DepositInput{
		AccountID: req.AccountID,
		Amount:    req.Amount,
	})
	if err != nil {
		// Mapeamento de erros de domínio -> HTTP status code
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "Valor inválido")
		case errors.Is(err, domain.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "Usuário não encontrado")
		default:
			log.Error().Err(err).Msg("Erro interno ao processar depósito")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusCreated, CreateDepositResponse{
		TransactionID: output.TransactionID,
		NewBalance:    output.NewBalance,
	})
}
