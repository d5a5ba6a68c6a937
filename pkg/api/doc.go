// Package api exposes the HTTP surface: signup/signin/signout and
// role-gated CRUD over user records, behind the guard -> authenticate ->
// authorize pipeline.
package api
