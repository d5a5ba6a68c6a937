// Package auth provides credential hashing, signed session tokens, and the
// cookie carrier that binds tokens to HTTP responses.
//
// Tokens are compact HS256 JWTs embedding {id, email, role} plus standard
// expiry. Claims are a snapshot taken at issuance; they are not re-validated
// against the store during a request, so staleness is bounded only by the
// configured TTL.
package auth
