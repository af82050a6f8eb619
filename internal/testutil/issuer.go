package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestAudience is the audience NewIssuer tokens carry by default.
const TestAudience = "authenticated"

// Issuer plays the identity provider in tests: it owns an RSA key, serves the
// matching JWKS document over HTTP, and mints RS256 tokens.
type Issuer struct {
	Key      *rsa.PrivateKey
	KeyID    string
	Audience string

	server  *httptest.Server
	fetches atomic.Int64
}

// NewIssuer starts a JWKS server for a fresh key. The server is closed when
// the test ends.
func NewIssuer(t *testing.T) *Issuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	iss := &Issuer{Key: key, KeyID: "test-key-1", Audience: TestAudience}
	iss.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		iss.fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(iss.JWKS())
	}))
	t.Cleanup(iss.server.Close)
	return iss
}

// URL returns the JWKS endpoint.
func (i *Issuer) URL() string {
	return i.server.URL + "/.well-known/jwks.json"
}

// Fetches returns how many times the JWKS endpoint has been requested.
func (i *Issuer) Fetches() int64 {
	return i.fetches.Load()
}

// JWKS returns the JSON key set containing the issuer's public key.
func (i *Issuer) JWKS() []byte {
	pub := i.Key.PublicKey
	doc := map[string]interface{}{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": i.KeyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	}
	b, _ := json.Marshal(doc)
	return b
}

// Token mints a valid one-hour token for subject.
func (i *Issuer) Token(t *testing.T, subject, email string) string {
	t.Helper()
	return i.Sign(t, i.Claims(subject, email, time.Hour))
}

// Claims builds the standard claim set for subject expiring after ttl.
// A negative ttl yields an expired token.
func (i *Issuer) Claims(subject, email string, ttl time.Duration) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"aud":   i.Audience,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
}

// Sign signs claims with RS256 under the issuer's key id.
func (i *Issuer) Sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = i.KeyID
	signed, err := token.SignedString(i.Key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}
