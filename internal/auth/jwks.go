// Package auth verifies bearer tokens issued by the external identity
// provider and turns them into the caller's identity.
package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"fintrack/internal/logger"
)

// KeySet is a parsed JWKS document: the provider's RSA public keys by key id.
type KeySet struct {
	keys map[string]*rsa.PublicKey
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// ParseKeySet decodes a JWKS document. Keys that are not RSA signing keys,
// or whose parameters do not decode, are skipped; a document without any
// usable key is an error.
func ParseKeySet(data []byte) (*KeySet, error) {
	var doc struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding jwks: %w", err)
	}

	set := &KeySet{keys: make(map[string]*rsa.PublicKey, len(doc.Keys))}
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.Kid == "" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			logger.Named("auth").Warnw("skipping malformed jwk", "kid", k.Kid, "error", err)
			continue
		}
		set.keys[k.Kid] = pub
	}
	if len(set.keys) == 0 {
		return nil, errors.New("jwks contains no RSA signing keys")
	}
	return set, nil
}

// Key returns the public key with the given key id.
func (s *KeySet) Key(kid string) (*rsa.PublicKey, bool) {
	key, ok := s.keys[kid]
	return key, ok
}

// Len returns the number of keys in the set.
func (s *KeySet) Len() int {
	return len(s.keys)
}

// parseRSAPublicKey builds a public key from base64url modulus and exponent.
func parseRSAPublicKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}
	if len(nb) == 0 || len(eb) == 0 || len(eb) > 4 {
		return nil, errors.New("malformed RSA key parameters")
	}

	exp := new(big.Int).SetBytes(eb)
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(exp.Int64()),
	}, nil
}
