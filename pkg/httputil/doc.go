// Package httputil provides JSON response helpers, request parsing, and
// the logging/recovery middleware shared by all handlers.
package httputil
