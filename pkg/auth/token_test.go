package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 15*time.Minute)

	identity := Identity{ID: "u-123", Email: "ann@x.com", Role: RoleUser}
	token, err := manager.Sign(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-123", claims.UserID)
	assert.Equal(t, "ann@x.com", claims.Email)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, identity, *claims.Identity())
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Sign(Identity{ID: "u-123", Email: "ann@x.com", Role: RoleUser})
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	signer := NewTokenManager("secret-a", 15*time.Minute)
	verifier := NewTokenManager("secret-b", 15*time.Minute)

	token, err := signer.Sign(Identity{ID: "u-123", Email: "ann@x.com", Role: RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", 15*time.Minute)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := manager.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestVerifyRejectsNonHMAC(t *testing.T) {
	// A token signed with "none" must never validate, even with a
	// matching payload shape.
	manager := NewTokenManager("test-secret", 15*time.Minute)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u-123",
		Email:  "ann@x.com",
		Role:   RoleAdmin,
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedTokenFails(t *testing.T) {
	manager := NewTokenManager("test-secret", 15*time.Minute)

	token, err := manager.Sign(Identity{ID: "u-123", Email: "ann@x.com", Role: RoleUser})
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = manager.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
