package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "5000", cfg.ServerPort)
	require.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.JWTRefreshTTL)
	require.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 100, cfg.RateLimitMax)
	require.Equal(t, 10, cfg.AuthRateLimitMax)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, 0, cfg.TrustedProxyHops)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", " access ")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("AUTH_RATE_LIMIT_MAX", "3")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("TRUSTED_PROXY_HOPS", "1")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "access", cfg.JWTSecret)
	require.Equal(t, "9090", cfg.ServerPort)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, 3, cfg.AuthRateLimitMax)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 1, cfg.TrustedProxyHops)
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	_, err := Load()
	require.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:       "5000",
			RequestTimeout:   time.Second,
			DatabaseURL:      "postgres://localhost/tasks",
			DBMaxConns:       4,
			DBMinConns:       1,
			JWTSecret:        "a",
			JWTRefreshSecret: "b",
			JWTAccessTTL:     time.Minute,
			JWTRefreshTTL:    time.Hour,
			RateLimitWindow:  time.Minute,
			LogFormat:        "pretty",
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.JWTRefreshSecret = cfg.JWTSecret
	require.ErrorContains(t, cfg.Validate(), "must differ")

	cfg = valid()
	cfg.DBMinConns = 8
	require.Error(t, cfg.Validate())

	cfg = valid()
	cfg.TrustedProxyHops = -1
	require.ErrorContains(t, cfg.Validate(), "TRUSTED_PROXY_HOPS")

	cfg = valid()
	cfg.LogFormat = "xml"
	require.Error(t, cfg.Validate())
}

func TestLoadDatabase_DoesNotNeedSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://ops@db:5432/tasks")

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgres://ops@db:5432/tasks", cfg.DatabaseURL)
	assert.Equal(t, int32(2), cfg.DBMaxConns)
}
