package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joaovicsa/banco-interface/internal/domain"
	"github.com/joaovicsa/banco-interface/internal/usecase"
	"github.com/rs/zerolog/log"
)

// AccountHandler expõe cadastro e extrato via HTTP
type AccountHandler struct {
	createAccountUC *usecase.CreateAccountUseCase
	getStatementUC  *usecase.GetStatementUseCase
}

func NewAccountHandler(createAccountUC *usecase.CreateAccountUseCase, getStatementUC *usecase.GetStatementUseCase) *AccountHandler {
	return &AccountHandler{
		createAccountUC: createAccountUC,
		getStatementUC:  getStatementUC,
	}
}

type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SignupResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Balance int64  `json:"balance"`
}

func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.createAccountUC.Execute(r.Context(), usecase.CreateAccountInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			respondError(w, http.StatusBadRequest, "Nome e e-mail são obrigatórios")
		case errors.Is(err, domain.ErrEmailTaken):
			respondError(w, http.StatusBadRequest, "E-mail já cadastrado")
		default:
			log.Error().Err(err).Msg("Falha ao criar conta")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusCreated, SignupResponse{
		ID:      output.ID,
		Name:    output.Name,
		Email:   output.Email,
		Balance: output.Balance,
	})
}

// DTOs do extrato. snake_case como o resto da API.
type StatementAccount struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Balance int64  `json:"balance"`
}

type StatementTransaction struct {
	ID               int64   `json:"id"`
	Type             string  `json:"type"`
	Amount           int64   `json:"amount"`
	BalanceAfter     int64   `json:"balance_after"`
	Description      string  `json:"description,omitempty"`
	RelatedAccountID *string `json:"related_account_id,omitempty"`
	ReversalOf       *int64  `json:"reversal_of,omitempty"`
	Reversed         bool    `json:"reversed"`
	CreatedAt        string  `json:"created_at"`
}

type StatementResponse struct {
	Account      StatementAccount       `json:"account"`
	Transactions []StatementTransaction `json:"transactions"`
	RelatedNames map[string]string      `json:"related_names"`
}

func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Limite inválido")
			return
		}
		limit = parsed
	}

	output, err := h.getStatementUC.Execute(r.Context(), usecase.GetStatementInput{
		AccountID: accountID,
		Limit:     limit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "Usuário não encontrado")
			return
		}
		log.Error().Err(err).Msg("Erro ao buscar extrato")
		respondError(w, http.StatusInternalServerError, "Erro interno ao buscar extrato")
		return
	}

	resp := StatementResponse{
		Account: StatementAccount{
			ID:      output.Account.ID,
			Name:    output.Account.Name,
			Email:   output.Account.Email,
			Balance: output.Account.Balance,
		},
		Transactions: make([]StatementTransaction, 0, len(output.Transactions)),
		RelatedNames: output.RelatedNames,
	}
	for _, tx := range output.Transactions {
		resp.Transactions = append(resp.Transactions, StatementTransaction{
			ID:               tx.ID,
			Type:             string(tx.Type),
			Amount:           tx.Amount,
			BalanceAfter:     tx.BalanceAfter,
			Description:      tx.Description,
			RelatedAccountID: tx.RelatedAccountID,
			ReversalOf:       tx.ReversalOf,
			Reversed:         tx.Reversed,
			CreatedAt:        tx.CreatedAt.Format(time.RFC3339),
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
