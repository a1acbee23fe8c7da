package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds JWT verification settings.
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// JWTVerifier validates HS256 tokens and uses the subject claim as the identity.
type JWTVerifier struct {
	config JWTConfig
}

// NewJWTVerifier creates a new JWTVerifier with the given configuration.
func NewJWTVerifier(config JWTConfig) *JWTVerifier {
	return &JWTVerifier{config: config}
}

// Verify parses and validates the token.
func (v *JWTVerifier) Verify(_ context.Context, credential string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (any, error) {
		return []byte(v.config.SecretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return Identity(claims.Subject), nil
}

// IssueToken signs a token for subject valid for ttl.
func (v *JWTVerifier) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    v.config.Issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.config.SecretKey))
}
