// Package observability provides structured logging, Prometheus metrics,
// health probes, and graceful shutdown plumbing for the service.
package observability
