package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhaysharma1/Acquisitions/pkg/observability"
	"github.com/abhaysharma1/Acquisitions/pkg/storage"
)

// GuardMode controls whether the security guard enforces or only reports
type GuardMode string

const (
	// ModeEnforce rejects requests the guard denies
	ModeEnforce GuardMode = "enforce"
	// ModeMonitor logs and counts denials but lets requests through
	ModeMonitor GuardMode = "monitor"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Auth configuration
	Auth AuthConfig

	// Guard (bot/shield/rate-limit) configuration
	Guard GuardConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// AuthConfig holds token and credential settings
type AuthConfig struct {
	// JWTSecret signs session tokens. Required.
	JWTSecret string
	// TokenTTL bounds claim staleness; the session cookie expires with it
	TokenTTL time.Duration
	// BcryptCost for password hashing
	BcryptCost int
	// CookieSecure marks the session cookie Secure (set in production)
	CookieSecure bool
}

// GuardConfig holds security guard settings
type GuardConfig struct {
	Mode GuardMode

	// Baseline sliding window applied to every requester regardless of role
	BaselineMax      int
	BaselineInterval time.Duration

	// Role-based sliding window over a longer interval
	RoleInterval time.Duration
	GuestMax     int
	UserMax      int
	AdminMax     int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Auth:          loadAuthConfig(),
		Guard:         loadGuardConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("ACQ_HOST", "0.0.0.0"),
		Port:            getEnv("ACQ_PORT", "8080"),
		ReadTimeout:     getEnvDuration("ACQ_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("ACQ_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("ACQ_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("ACQ_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("ACQ_HEALTH_PORT", "9090"),
	}
}

func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if pgURL := getEnv("ACQ_POSTGRES_URL", ""); pgURL != "" {
		cfg.PostgresURL = pgURL
	}
	if replicaURLs := getEnv("ACQ_POSTGRES_REPLICA_URLS", ""); replicaURLs != "" {
		cfg.PostgresReplicaURLs = replicaURLs
	}
	if maxConns := getEnvInt("ACQ_POSTGRES_MAX_CONNS", 0); maxConns > 0 {
		cfg.PostgresMaxConns = maxConns
	}
	if minConns := getEnvInt("ACQ_POSTGRES_MIN_CONNS", 0); minConns > 0 {
		cfg.PostgresMinConns = minConns
	}
	if timeout := getEnvDuration("ACQ_POSTGRES_TIMEOUT", 0); timeout > 0 {
		cfg.PostgresTimeout = timeout
	}

	return cfg
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:    getEnv("ACQ_JWT_SECRET", ""),
		TokenTTL:     getEnvDuration("ACQ_TOKEN_TTL", 15*time.Minute),
		BcryptCost:   getEnvInt("ACQ_BCRYPT_COST", 10),
		CookieSecure: getEnvBool("ACQ_COOKIE_SECURE", false),
	}
}

func loadGuardConfig() GuardConfig {
	return GuardConfig{
		Mode:             parseGuardMode(getEnv("ACQ_GUARD_MODE", "enforce")),
		BaselineMax:      getEnvInt("ACQ_GUARD_BASELINE_MAX", 5),
		BaselineInterval: getEnvDuration("ACQ_GUARD_BASELINE_INTERVAL", 2*time.Second),
		RoleInterval:     getEnvDuration("ACQ_GUARD_ROLE_INTERVAL", time.Minute),
		GuestMax:         getEnvInt("ACQ_GUARD_GUEST_MAX", 5),
		UserMax:          getEnvInt("ACQ_GUARD_USER_MAX", 10),
		AdminMax:         getEnvInt("ACQ_GUARD_ADMIN_MAX", 20),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("ACQ_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("ACQ_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Storage.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set ACQ_JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	if c.Guard.Mode != ModeEnforce && c.Guard.Mode != ModeMonitor {
		return fmt.Errorf("invalid guard mode: %s (must be enforce or monitor)", c.Guard.Mode)
	}
	if c.Guard.BaselineMax <= 0 || c.Guard.GuestMax <= 0 || c.Guard.UserMax <= 0 || c.Guard.AdminMax <= 0 {
		return fmt.Errorf("guard window limits must be positive")
	}
	if c.Guard.BaselineInterval <= 0 || c.Guard.RoleInterval <= 0 {
		return fmt.Errorf("guard window intervals must be positive")
	}

	return nil
}

func parseGuardMode(mode string) GuardMode {
	switch strings.ToLower(mode) {
	case "monitor", "dry-run":
		return ModeMonitor
	default:
		return ModeEnforce
	}
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
