package accounts_api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bank-accounts-service/internal/accounts_api/service"
	"github.com/bank-accounts-service/internal/config"
	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/bank-accounts-service/internal/platform/correlation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// stubAccounts serves GetAccount and ListAccounts; the embedded interface panics elsewhere.
type stubAccounts struct {
	service.AccountService
	seen string
}

func (s *stubAccounts) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	s.seen = correlation.FromContext(ctx)
	return nil, account.ErrAccountNotFound{AccountID: id}
}

func (s *stubAccounts) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	return []*account.Account{}, nil
}

func newTestServer(checks map[string]HealthChecker, accounts service.AccountService) *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Server: config.ServerConfig{Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewServer(logger, cfg, Services{Accounts: accounts}, checks)
}

func TestHealth(t *testing.T) {
	t.Run("AllDependenciesUp", func(t *testing.T) {
		srv := newTestServer(map[string]HealthChecker{
			"postgres": pingFunc(func(context.Context) error { return nil }),
			"mongodb":  pingFunc(func(context.Context) error { return nil }),
		}, &stubAccounts{})

		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, map[string]interface{}{"postgres": "ok", "mongodb": "ok"}, body["dependencies"])
	})

	t.Run("DatabaseDown", func(t *testing.T) {
		srv := newTestServer(map[string]HealthChecker{
			"postgres": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
		}, &stubAccounts{})

		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "connection refused")
	})
}

func TestRoutes_CorrelationReachesServices(t *testing.T) {
	accounts := &stubAccounts{}
	srv := newTestServer(nil, accounts)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString(), nil)
	req.Header.Set(correlation.Header, "trace-me")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "trace-me", rr.Header().Get(correlation.Header))
	assert.Equal(t, "trace-me", accounts.seen)
	assert.Contains(t, rr.Body.String(), `"correlation_id":"trace-me"`)
}

func TestRoutes_PanicAnswersWithErrorEnvelope(t *testing.T) {
	// DeleteAccount is not stubbed, so the nil embedded service panics
	srv := newTestServer(nil, &stubAccounts{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/"+uuid.NewString(), nil)
	req.Header.Set(correlation.Header, "corr-panic")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var env struct {
		Error struct {
			Code   string `json:"code"`
			Status int    `json:"status"`
		} `json:"error"`
		CorrelationID string `json:"correlation_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", env.Error.Code)
	assert.Equal(t, http.StatusInternalServerError, env.Error.Status)
	assert.Equal(t, "corr-panic", env.CorrelationID)
}

func TestRoutes_ListAccounts(t *testing.T) {
	srv := newTestServer(nil, &stubAccounts{})

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, extractData(t, rr.Body.Bytes()))
}

func extractData(t *testing.T, raw []byte) string {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	return string(env.Data)
}
