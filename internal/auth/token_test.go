package auth_test

import (
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avencore/devops-agent/internal/auth"
)

var testIdentity = auth.Identity{
	Subject:           "u1",
	Email:             "u1@example.com",
	Name:              "User One",
	PreferredUsername: "user.one",
}

func TestTokenIssuer_New(t *testing.T) {
	_, err := auth.NewTokenIssuer(nil, "devops-agent-backend", time.Hour)
	assert.Error(t, err, "empty signing secret must be rejected")

	issuer, err := auth.NewTokenIssuer([]byte("secret"), "devops-agent-backend", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, issuer.TokenTTL())
}

func TestTokenVerifier_New(t *testing.T) {
	_, err := auth.NewTokenVerifier(nil)
	assert.Error(t, err, "empty signing secret must be rejected")
}

func TestToken_RoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	issuer, err := auth.NewTokenIssuer(secret, "devops-agent-backend", time.Hour)
	require.NoError(t, err)
	verifier, err := auth.NewTokenVerifier(secret)
	require.NoError(t, err)

	token, err := issuer.Issue(testIdentity)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenTypeBearer, token.TokenType)
	assert.Equal(t, 3600, token.ExpiresIn)

	identity := verifier.Verify(token.AccessToken)
	require.NotNil(t, identity)
	assert.Equal(t, testIdentity, *identity)
}

func TestTokenVerifier_Verify(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	now := time.Now()

	issuer, err := auth.NewTokenIssuer(secret, "devops-agent-backend", time.Hour)
	require.NoError(t, err)
	issuer.SetNowFunc(func() time.Time { return now })

	valid, err := issuer.Issue(testIdentity)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		verifyAt time.Time
		want     *auth.Identity
	}{
		{
			name:     "valid token",
			token:    valid.AccessToken,
			verifyAt: now.Add(time.Minute),
			want:     &testIdentity,
		},
		{
			name:     "garbage",
			token:    "not-a-jwt",
			verifyAt: now,
		},
		{
			name:     "empty",
			token:    "",
			verifyAt: now,
		},
		{
			name:     "wrong key",
			token:    signedWith(t, []byte("another-secret-another-secret-xx"), testIdentity.Subject, now, now.Add(time.Hour)),
			verifyAt: now,
		},
		{
			name:     "tampered payload",
			token:    tamper(valid.AccessToken),
			verifyAt: now,
		},
		{
			name:     "expired",
			token:    valid.AccessToken,
			verifyAt: now.Add(time.Hour + time.Second),
		},
		{
			name:     "missing expiry",
			token:    signedWithoutExpiry(t, secret, testIdentity.Subject),
			verifyAt: now,
		},
		{
			name:     "missing subject",
			token:    signedWith(t, secret, "", now, now.Add(time.Hour)),
			verifyAt: now,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verifier, err := auth.NewTokenVerifier(secret)
			require.NoError(t, err)
			verifier.SetNowFunc(func() time.Time { return tc.verifyAt })

			identity := verifier.Verify(tc.token)
			if tc.want == nil {
				assert.Nil(t, identity)
				return
			}

			require.NotNil(t, identity)
			assert.Equal(t, *tc.want, *identity)
		})
	}
}

func TestTokenVerifier_RefusesUnsigned(t *testing.T) {
	// alg=none tokens must never verify, regardless of their payload
	token := "eyJhbGciOiJub25lIn0." +
		"eyJzdWIiOiJ1MSIsImV4cCI6OTk5OTk5OTk5OX0."

	verifier, err := auth.NewTokenVerifier([]byte("secret"))
	require.NoError(t, err)

	assert.Nil(t, verifier.Verify(token))
}

func signedWith(t *testing.T, secret []byte, subject string, issuedAt, expiry time.Time) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secret}, nil)
	require.NoError(t, err)

	claims := jwt.Claims{
		Subject:  subject,
		Issuer:   "devops-agent-backend",
		IssuedAt: jwt.NewNumericDate(issuedAt),
		Expiry:   jwt.NewNumericDate(expiry),
	}

	token, err := jwt.Signed(signer).Claims(claims).Serialize()
	require.NoError(t, err)

	return token
}

func signedWithoutExpiry(t *testing.T, secret []byte, subject string) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secret}, nil)
	require.NoError(t, err)

	token, err := jwt.Signed(signer).Claims(jwt.Claims{Subject: subject}).Serialize()
	require.NoError(t, err)

	return token
}

func tamper(token string) string {
	return token[:len(token)-2] + "xx"
}
