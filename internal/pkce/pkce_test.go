package pkce_test

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avencore/devops-agent/internal/pkce"
)

func TestNewVerifier(t *testing.T) {
	v1 := pkce.NewVerifier()
	v2 := pkce.NewVerifier()

	assert.NotEmpty(t, v1)
	assert.NotEqual(t, v1, v2, "verifiers must be random")

	_, err := base64.RawURLEncoding.DecodeString(v1)
	assert.NoError(t, err, "verifier must be base64url without padding")
}

func TestChallenge(t *testing.T) {
	verifier := pkce.NewVerifier()
	challenge := pkce.Challenge(verifier)

	sum := sha256.Sum256([]byte(verifier))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), challenge)
}

func TestNewState(t *testing.T) {
	s1 := pkce.NewState()
	s2 := pkce.NewState()

	assert.Len(t, s1, 64)
	assert.NotEqual(t, s1, s2, "states must be random")
}
