// Package users holds the account domain: the user record, its sanitized
// projection, the persistence boundary, and the account/directory services
// that enforce uniqueness and credential-match rules.
package users
