// Package auth verifies bearer credentials and resolves them to an owner identity.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidToken is returned when a credential fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// Identity is the verified owner identity of a caller.
type Identity string

// Verifier turns a bearer credential into an Identity.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

// InsecureHeaderVerifier trusts the credential verbatim as the identity.
// It performs no signature check and exists for local development and tests
// only. The server never selects it unless AUTH_MODE=insecure-dev.
type InsecureHeaderVerifier struct{}

// Verify returns the trimmed credential as the identity.
func (InsecureHeaderVerifier) Verify(_ context.Context, credential string) (Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", ErrInvalidToken
	}
	return Identity(credential), nil
}
