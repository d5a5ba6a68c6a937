// Package storage holds database configuration shared by the concrete
// backends under storage/postgres.
package storage
