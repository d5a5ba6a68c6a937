package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhaysharma1/Acquisitions/pkg/observability"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ACQ_JWT_SECRET", "test-secret")
	t.Setenv("ACQ_POSTGRES_URL", "postgres://localhost:5432/acquisitions?sslmode=disable")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Auth.CookieSecure)

	assert.Equal(t, ModeEnforce, cfg.Guard.Mode)
	assert.Equal(t, 5, cfg.Guard.BaselineMax)
	assert.Equal(t, 2*time.Second, cfg.Guard.BaselineInterval)
	assert.Equal(t, time.Minute, cfg.Guard.RoleInterval)
	assert.Equal(t, 5, cfg.Guard.GuestMax)
	assert.Equal(t, 10, cfg.Guard.UserMax)
	assert.Equal(t, 20, cfg.Guard.AdminMax)

	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACQ_PORT", "3000")
	t.Setenv("ACQ_TOKEN_TTL", "1h")
	t.Setenv("ACQ_GUARD_MODE", "monitor")
	t.Setenv("ACQ_GUARD_USER_MAX", "50")
	t.Setenv("ACQ_LOG_LEVEL", "debug")
	t.Setenv("ACQ_METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, ModeMonitor, cfg.Guard.Mode)
	assert.Equal(t, 50, cfg.Guard.UserMax)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.False(t, cfg.Observability.MetricsEnabled)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("ACQ_JWT_SECRET", "")
	t.Setenv("ACQ_POSTGRES_URL", "postgres://localhost:5432/acquisitions")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)

	base, err := LoadConfig()
	require.NoError(t, err)

	t.Run("postgres url is required", func(t *testing.T) {
		cfg := *base
		cfg.Storage.PostgresURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("ports must differ", func(t *testing.T) {
		cfg := *base
		cfg.Server.HealthPort = cfg.Server.Port
		assert.Error(t, cfg.Validate())
	})

	t.Run("limits must be positive", func(t *testing.T) {
		cfg := *base
		cfg.Guard.UserMax = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("intervals must be positive", func(t *testing.T) {
		cfg := *base
		cfg.Guard.BaselineInterval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("token ttl must be positive", func(t *testing.T) {
		cfg := *base
		cfg.Auth.TokenTTL = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestParseGuardMode(t *testing.T) {
	assert.Equal(t, ModeMonitor, parseGuardMode("monitor"))
	assert.Equal(t, ModeMonitor, parseGuardMode("dry-run"))
	assert.Equal(t, ModeEnforce, parseGuardMode("enforce"))
	assert.Equal(t, ModeEnforce, parseGuardMode("anything-else"))
}
