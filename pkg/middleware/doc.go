// Package middleware implements the per-request pipeline: the security
// guard, the authentication gate, and the admin authorization gate.
//
// # Middleware Ordering Requirements
//
// Stages run strictly in order for each request; an early rejection stops
// the chain. The required ordering (outer to inner) is:
//
//  1. Guard - bot/shield/rate-limit decisions, pre-authentication
//  2. Authenticator.Handler - populates identity from the session cookie
//  3. RequireAdmin / ownership checks - authorization over that identity
//  4. Route handler
//
// The Guard runs before the Authenticator, so it resolves the requester's
// role from a best-effort token peek and falls back to "guest" when no
// identity can be established. RequireAdmin placed before
// Authenticator.Handler will reject every request: the identity it reads is
// only set by the authenticate stage.
package middleware
