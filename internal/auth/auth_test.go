package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTVerifier(t *testing.T) {
	ctx := context.Background()
	verifier := NewJWTVerifier(JWTConfig{SecretKey: "secret", Issuer: "study-planner"})

	valid, err := verifier.IssueToken("user-123", time.Hour)
	require.NoError(t, err)

	expired, err := verifier.IssueToken("user-123", -time.Minute)
	require.NoError(t, err)

	wrongSecret, err := NewJWTVerifier(JWTConfig{SecretKey: "other", Issuer: "study-planner"}).IssueToken("user-123", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewJWTVerifier(JWTConfig{SecretKey: "secret", Issuer: "someone-else"}).IssueToken("user-123", time.Hour)
	require.NoError(t, err)

	noSubject, err := verifier.IssueToken("", time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-123"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
		want       Identity
		wantErr    error
	}{
		{"valid", valid, "user-123", nil},
		{"expired", expired, "", ErrExpiredToken},
		{"wrong secret", wrongSecret, "", ErrInvalidToken},
		{"wrong issuer", wrongIssuer, "", ErrInvalidToken},
		{"no subject", noSubject, "", ErrInvalidToken},
		{"unsigned", none, "", ErrInvalidToken},
		{"garbage", "not.a.token", "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := verifier.Verify(ctx, tt.credential)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, identity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, identity)
		})
	}
}

func TestInsecureHeaderVerifier(t *testing.T) {
	var verifier Verifier = InsecureHeaderVerifier{}

	identity, err := verifier.Verify(context.Background(), " alice ")
	require.NoError(t, err)
	assert.Equal(t, Identity("alice"), identity)

	_, err = verifier.Verify(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
