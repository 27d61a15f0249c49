package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/usecase"
	"github.com/rs/zerolog/log"
)

// TransferHandler expõe as operações de transferência via HTTP
type TransferHandler struct {
	transferUseCase *usecase.TransferMoneyUseCase
}

func NewTransferHandler(uc *usecase.TransferMoneyUseCase) *TransferHandler {
	return &TransferHandler{transferUseCase: uc}
}

// DTOs com tags JSON em snake_case (padrão de APIs)
type CreateTransferRequest struct {
	SenderID       string `json:"sender_id"`
	SenderEmail    string `json:"sender_email"`
	RecipientEmail string `json:"recipient_email"`
	Amount         int64  `json:"amount"` // Valor em centavos
}

type CreateTransferResponse struct {
	TransactionID int64 `json:"transaction_id"`
	NewBalance    int64 `json:"new_balance"`
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.transferUseCase.Execute(r.Context(), usecase.TransferMoneyInput{
		SenderID:       req.SenderID,
		SenderEmail:    req.SenderEmail,
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "Valor inválido")
		case errors.Is(err, domain.ErrSelfTransfer):
			respondError(w, http.StatusBadRequest, "Você não pode transferir para si mesmo.")
		case errors.Is(err, domain.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "Conta do remetente não encontrada.")
		case errors.Is(err, domain.ErrRecipientNotFound):
			respondError(w, http.StatusNotFound, "Usuário destinatário não encontrado.")
		case errors.Is(err, domain.ErrInsufficientFunds):
			respondError(w, http.StatusUnprocessableEntity, "Saldo insuficiente para realizar a transferência.")
		default:
			log.Error().Err(err).Msg("Erro interno ao processar transferência")
			respondError(w, http.StatusInternalServerError, "Erro interno ao realizar transferência.")
		}
		return
	}

	respondJSON(w, http.StatusCreated, CreateTransferResponse{
		TransactionID: output.SentTransactionID,
		NewBalance:    output.NewSenderBalance,
	})
}
