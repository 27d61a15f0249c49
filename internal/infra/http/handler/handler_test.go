package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/joaovicsa/banco-interface/internal/infra/http/handler"
	"github.com/joaovicsa/banco-interface/internal/infra/memory"
	"github.com/joaovicsa/banco-interface/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer sobe a API completa sobre o store em memória, sem Redis
// nem RabbitMQ: aqui interessa o contrato HTTP do core.
func newTestServer() *httptest.Server {
	store := memory.NewStore()
	accounts := memory.NewAccountRepository(store)
	transactions := memory.NewTransactionRepository(store)
	uow := memory.NewUow(store)

	accountHandler := handler.NewAccountHandler(
		usecase.NewCreateAccount(accounts),
		usecase.NewGetStatement(accounts, transactions),
	)
	depositHandler := handler.NewDepositHandler(
		usecase.NewDeposit(accounts, transactions, uow, nil),
	)
	transferHandler := handler.NewTransferHandler(
		usecase.NewTransferMoney(accounts, transactions, uow, nil),
	)
	reversalHandler := handler.NewReversalHandler(
		usecase.NewReverseTransaction(accounts, transactions, uow, nil),
	)

	router := chi.NewRouter()
	router.Post("/signup", accountHandler.Signup)
	router.Post("/deposits", depositHandler.Create)
	router.Post("/transfers", transferHandler.Create)
	router.Post("/reversals", reversalHandler.Create)
	router.Get("/accounts/{id}/statement", accountHandler.Statement)

	return httptest.NewServer(router)
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func signup(t *testing.T, serverURL, name, email string) string {
	t.Helper()

	resp, body := postJSON(t, serverURL+"/signup", map[string]any{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := body["id"].(string)
	require.True(t, ok)
	return id
}

func TestLedgerEndpoints(t *testing.T) {
	t.Run("fluxo completo: cadastro, depósito, transferência, reversão e extrato", func(t *testing.T) {
		server := newTestServer()
		defer server.Close()

		anaID := signup(t, server.URL, "Ana", "ana@example.com")
		_ = signup(t, server.URL, "Bruno", "bruno@example.com")

		// depósito
		resp, body := postJSON(t, server.URL+"/deposits", map[string]any{
			"account_id": anaID,
			"amount":     1000,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, float64(1000), body["new_balance"])
		depositTxID := int64(body["transaction_id"].(float64))

		// transferência
		resp, body = postJSON(t, server.URL+"/transfers", map[string]any{
			"sender_id":       anaID,
			"sender_email":    "ana@example.com",
			"recipient_email": "bruno@example.com",
			"amount":          300,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, float64(700), body["new_balance"])

		// reversão do depósito
		resp, body = postJSON(t, server.URL+"/reversals", map[string]any{
			"account_id":       anaID,
			"transaction_id":   depositTxID,
			"original_amount":  1000,
			"transaction_type": "deposit",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, float64(-300), body["new_balance"])

		// extrato
		httpResp, err := http.Get(fmt.Sprintf("%s/accounts/%s/statement", server.URL, anaID))
		require.NoError(t, err)
		defer httpResp.Body.Close()
		require.Equal(t, http.StatusOK, httpResp.StatusCode)

		var statement struct {
			Account struct {
				Balance int64 `json:"balance"`
			} `json:"account"`
			Transactions []struct {
				Type     string `json:"type"`
				Reversed bool   `json:"reversed"`
			} `json:"transactions"`
			RelatedNames map[string]string `json:"related_names"`
		}
		require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&statement))

		assert.Equal(t, int64(-300), statement.Account.Balance)
		require.Len(t, statement.Transactions, 3)
		assert.Equal(t, "reversal", statement.Transactions[0].Type)
		assert.Equal(t, "transfer_sent", statement.Transactions[1].Type)
		assert.Equal(t, "deposit", statement.Transactions[2].Type)
		assert.True(t, statement.Transactions[2].Reversed)

		require.Len(t, statement.RelatedNames, 1)
		for _, name := range statement.RelatedNames {
			assert.Equal(t, "Bruno", name)
		}
	})

	t.Run("mapeamento de erros de domínio para status HTTP", func(t *testing.T) {
		server := newTestServer()
		defer server.Close()

		anaID := signup(t, server.URL, "Ana", "ana@example.com")
		_ = signup(t, server.URL, "Bruno", "bruno@example.com")

		tests := []struct {
			name       string
			path       string
			payload    map[string]any
			wantStatus int
		}{
			{
				name:       "depósito com valor inválido",
				path:       "/deposits",
				payload:    map[string]any{"account_id": anaID, "amount": 0},
				wantStatus: http.StatusBadRequest,
			},
			{
				name:       "depósito em conta inexistente",
				path:       "/deposits",
				payload:    map[string]any{"account_id": "ghost", "amount": 10},
				wantStatus: http.StatusNotFound,
			},
			{
				name: "transferência para si mesmo",
				path: "/transfers",
				payload: map[string]any{
					"sender_id": anaID, "sender_email": "ana@example.com",
					"recipient_email": "ana@example.com", "amount": 10,
				},
				wantStatus: http.StatusBadRequest,
			},
			{
				name: "saldo insuficiente",
				path: "/transfers",
				payload: map[string]any{
					"sender_id": anaID, "sender_email": "ana@example.com",
					"recipient_email": "bruno@example.com", "amount": 999999,
				},
				wantStatus: http.StatusUnprocessableEntity,
			},
			{
				name: "destinatário inexistente",
				path: "/transfers",
				payload: map[string]any{
					"sender_id": anaID, "sender_email": "ana@example.com",
					"recipient_email": "ghost@example.com", "amount": 10,
				},
				wantStatus: http.StatusNotFound,
			},
			{
				name: "reversão de transação inexistente",
				path: "/reversals",
				payload: map[string]any{
					"account_id": anaID, "transaction_id": 12345,
					"original_amount": 10, "transaction_type": "deposit",
				},
				wantStatus: http.StatusNotFound,
			},
			{
				name: "reversão com tipo desconhecido",
				path: "/reversals",
				payload: map[string]any{
					"account_id": anaID, "transaction_id": 1,
					"original_amount": 10, "transaction_type": "withdrawal",
				},
				wantStatus: http.StatusBadRequest,
			},
			{
				name:       "cadastro com e-mail repetido",
				path:       "/signup",
				payload:    map[string]any{"name": "Clone", "email": "ana@example.com"},
				wantStatus: http.StatusBadRequest,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp, body := postJSON(t, server.URL+tt.path, tt.payload)
				assert.Equal(t, tt.wantStatus, resp.StatusCode)
				assert.NotEmpty(t, body["error"])
			})
		}
	})

	t.Run("reversão dupla responde 409", func(t *testing.T) {
		server := newTestServer()
		defer server.Close()

		anaID := signup(t, server.URL, "Ana", "ana@example.com")
		resp, body := postJSON(t, server.URL+"/deposits", map[string]any{"account_id": anaID, "amount": 100})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		txID := int64(body["transaction_id"].(float64))

		payload := map[string]any{
			"account_id": anaID, "transaction_id": txID,
			"original_amount": 100, "transaction_type": "deposit",
		}
		resp, _ = postJSON(t, server.URL+"/reversals", payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, _ = postJSON(t, server.URL+"/reversals", payload)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}
