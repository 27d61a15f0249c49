package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/usecase"
	"github.com/rs/zerolog/log"
)

type ReversalHandler struct {
	reverseUseCase *usecase.ReverseTransactionUseCase
}

func NewReversalHandler(uc *usecase.ReverseTransactionUseCase) *ReversalHandler {
	return &ReversalHandler{reverseUseCase: uc}
}

type CreateReversalRequest struct {
	AccountID       string `json:"account_id"`
	TransactionID   int64  `json:"transaction_id"`
	OriginalAmount  int64  `json:"original_amount"`
	TransactionType string `json:"transaction_type"`
}

type CreateReversalResponse struct {
	TransactionID int64 `json:"transaction_id"`
	NewBalance    int64 `json:"new_balance"`
}

func (h *ReversalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReversalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.reverseUseCase.Execute(r.Context(), usecase.ReverseTransactionInput{
		AccountID:       req.AccountID,
		TransactionID:   req.TransactionID,
		OriginalAmount:  req.OriginalAmount,
		TransactionType: domain.TransactionType(req.TransactionType),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrUnknownTransactionType):
			respondError(w, http.StatusBadRequest, "Dados inválidos")
		case errors.Is(err, domain.ErrNotReversible):
			respondError(w, http.StatusBadRequest, "Uma reversão não pode ser revertida")
		case errors.Is(err, domain.ErrReversalMismatch):
			respondError(w, http.StatusBadRequest, "Dados não conferem com a transação original")
		case errors.Is(err, domain.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "Usuário não encontrado")
		case errors.Is(err, domain.ErrTransactionNotFound):
			respondError(w, http.StatusNotFound, "Transação não encontrada")
		case errors.Is(err, domain.ErrAlreadyReversed):
			respondError(w, http.StatusConflict, "Transação já foi revertida")
		default:
			log.Error().Err(err).Msg("Erro interno ao reverter transação")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusCreated, CreateReversalResponse{
		TransactionID: output.ReversalTransactionID,
		NewBalance:    output.NewBalance,
	})
}
