package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned for an empty bearer token.
	ErrMissingToken = errors.New("no bearer token supplied")
	// ErrMissingSubject is returned when a verified token names no subject.
	ErrMissingSubject = errors.New("token has no subject")
)

// Claims are the token claims the API relies on.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenValidator verifies RS256 bearer tokens against the provider's key set.
type TokenValidator struct {
	keys     *KeySetCache
	jwksURL  string
	audience string
	now      func() time.Time
}

// NewTokenValidator creates a validator reading keys for jwksURL from keys
// and requiring the given audience. A nil clock means time.Now.
func NewTokenValidator(keys *KeySetCache, jwksURL, audience string, now func() time.Time) *TokenValidator {
	if now == nil {
		now = time.Now
	}
	return &TokenValidator{keys: keys, jwksURL: jwksURL, audience: audience, now: now}
}

// Validate checks the token's signature, algorithm, audience and expiry and
// returns its claims.
func (v *TokenValidator) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("kid not found in token header")
		}

		set, err := v.keys.Get(ctx, v.jwksURL)
		if err != nil {
			return nil, fmt.Errorf("failed to get signing keys: %w", err)
		}
		key, ok := set.Key(kid)
		if !ok {
			return nil, fmt.Errorf("key with kid %s not found", kid)
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// Identity is the caller on whose behalf a request runs.
type Identity struct {
	Subject string `json:"id"`
	Email   string `json:"email"`
}

// Resolve projects validated claims onto an Identity.
func Resolve(claims *Claims) Identity {
	return Identity{Subject: claims.Subject, Email: claims.Email}
}
