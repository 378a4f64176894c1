// Package pkce generates the random material used by the authorization-code
// login flow: RFC 7636 code verifiers/challenges and opaque state values.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
)

const MethodS256 = "S256"

const stateLength = 64

// NewVerifier returns a fresh base64url-encoded code verifier.
func NewVerifier() string {
	const n = 32

	raw := make([]byte, n)
	_, _ = rand.Read(raw)

	return base64.RawURLEncoding.EncodeToString(raw)
}

// Challenge derives the S256 code challenge for a verifier.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))

	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// NewState returns a random state value binding an authorization request to
// its callback.
func NewState() string {
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

	ret := make([]byte, stateLength)
	for i := range stateLength {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		ret[i] = letters[num.Int64()]
	}

	return string(ret)
}
