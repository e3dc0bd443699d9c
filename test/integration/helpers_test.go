//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-task-manager/internal/app"
	"go-task-manager/internal/config"
	"go-task-manager/internal/database"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:              "0",
		ServerReadHeaderTimeout: 5 * time.Second,
		ServerWriteTimeout:      10 * time.Second,
		ServerIdleTimeout:       30 * time.Second,
		RequestTimeout:          10 * time.Second,
		DatabaseURL:             dsn,
		DBMaxConns:              5,
		DBMinConns:              0,
		JWTSecret:               "integration-access-secret",
		JWTRefreshSecret:        "integration-refresh-secret",
		JWTAccessTTL:            time.Minute,
		JWTRefreshTTL:           time.Hour,
		BcryptCost:              4,
		CORSOrigins:             []string{"*"},
		RateLimitWindow:         time.Minute,
		RateLimitMax:            0,
		AuthRateLimitMax:        0,
		LogLevel:                "error",
		LogFormat:               "json",
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	application, err := app.New(context.Background(), testConfig())
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		application.Close()
	})
	return srv
}

func newDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(context.Background(), database.PoolConfig{URL: dsn, MaxConns: 5})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(db.Close)
	return db
}

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

func call(t *testing.T, srv *httptest.Server, method string, path string, token string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func registerUser(t *testing.T, srv *httptest.Server, prefix string, role string) session {
	t.Helper()

	body := map[string]string{
		"username": prefix,
		"email":    uniqueEmail(prefix),
		"password": "secret123",
	}
	if role != "" {
		body["role"] = role
	}

	status, env := call(t, srv, http.MethodPost, "/api/register", "", body)
	require.Equal(t, http.StatusCreated, status, env.Error)

	var s session
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
