package storage

import (
	"strings"
	"time"
)

// Config holds database connection configuration
type Config struct {
	// PostgresURL is the primary (read-write) connection string
	PostgresURL string
	// PostgresReplicaURLs is a comma-separated list of read replica URLs
	PostgresReplicaURLs string
	// PostgresMaxConns caps open connections per pool
	PostgresMaxConns int
	// PostgresMinConns sets the idle connection floor
	PostgresMinConns int
	// PostgresTimeout bounds connect/ping operations
	PostgresTimeout time.Duration
}

// DefaultConfig returns sensible local-development defaults
func DefaultConfig() Config {
	return Config{
		PostgresURL:      "postgres://localhost:5432/acquisitions?sslmode=disable",
		PostgresMaxConns: 25,
		PostgresMinConns: 5,
		PostgresTimeout:  10 * time.Second,
	}
}

// ReplicaURLs splits the comma-separated replica list
func (c Config) ReplicaURLs() []string {
	if c.PostgresReplicaURLs == "" {
		return nil
	}
	parts := strings.Split(c.PostgresReplicaURLs, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}
