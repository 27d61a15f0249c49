package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/joaovicsa/banco-interface/internal/gateway"
	"github.com/joaovicsa/banco-interface/internal/infra/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIdempotencyRepo substitui o Redis nos testes.
type fakeIdempotencyRepo struct {
	mu      sync.Mutex
	entries map[string]gateway.CachedResponse
	getErr  error
}

func newFakeRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{entries: make(map[string]gateway.CachedResponse)}
}

func (f *fakeIdempotencyRepo) Get(_ context.Context, key string) (*gateway.CachedResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if resp, ok := f.entries[key]; ok {
		return &resp, nil
	}
	return nil, nil
}

func (f *fakeIdempotencyRepo) Save(_ context.Context, key string, response gateway.CachedResponse, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = response
	return nil
}

// countingHandler responde 201 com um corpo diferente a cada chamada.
func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"call":` + strconv.Itoa(*calls) + `}`))
	})
}

func TestIdempotencyMiddleware(t *testing.T) {
	t.Run("repete a mesma resposta para a mesma chave", func(t *testing.T) {
		repo := newFakeRepo()
		calls := 0
		handler := middleware.Idempotency(repo)(countingHandler(&calls))

		first := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transfers", nil)
		req.Header.Set("Idempotency-Key", "abc")
		handler.ServeHTTP(first, req)

		second := httptest.NewRecorder()
		req2 := httptest.NewRequest(http.MethodPost, "/transfers", nil)
		req2.Header.Set("Idempotency-Key", "abc")
		handler.ServeHTTP(second, req2)

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get("X-Idempotency-Hit"))
	})

	t.Run("sem chave, cada requisição processa", func(t *testing.T) {
		repo := newFakeRepo()
		calls := 0
		handler := middleware.Idempotency(repo)(countingHandler(&calls))

		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/transfers", nil))
		}
		assert.Equal(t, 3, calls)
	})

	t.Run("erro no cache não trava a API (fail open)", func(t *testing.T) {
		repo := newFakeRepo()
		repo.getErr = errors.New("redis fora do ar")
		calls := 0
		handler := middleware.Idempotency(repo)(countingHandler(&calls))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transfers", nil)
		req.Header.Set("Idempotency-Key", "abc")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("5xx não é cacheado", func(t *testing.T) {
		repo := newFakeRepo()
		handler := middleware.Idempotency(repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transfers", nil)
		req.Header.Set("Idempotency-Key", "abc")
		handler.ServeHTTP(rec, req)

		cached, err := repo.Get(context.Background(), "abc")
		require.NoError(t, err)
		assert.Nil(t, cached)
	})
}
