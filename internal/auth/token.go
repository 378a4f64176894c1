package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// sessionClaims is the payload of a self-issued session token.
type sessionClaims struct {
	jwt.Claims

	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// TokenIssuer mints session tokens signed with a symmetric key. The issuer
// holds its configuration immutably; changing the secret or TTL means
// constructing a new issuer.
type TokenIssuer struct {
	signer   jose.Signer
	issuer   string
	tokenTTL time.Duration

	now func() time.Time
}

func NewTokenIssuer(signingSecret []byte, issuer string, tokenTTL time.Duration) (*TokenIssuer, error) {
	if len(signingSecret) == 0 {
		return nil, errors.New("signing secret must not be empty")
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: signingSecret}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating a JWT signer: %w", err)
	}

	return &TokenIssuer{
		signer:   signer,
		issuer:   issuer,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}, nil
}

// Issue creates a session token for the identity. The token carries the
// subject, the issue and expiry instants and the profile claims that were
// resolved at login.
func (i *TokenIssuer) Issue(identity Identity) (SessionToken, error) {
	issuedAt := i.now()

	claims := sessionClaims{
		Claims: jwt.Claims{
			Subject:  identity.Subject,
			Issuer:   i.issuer,
			IssuedAt: jwt.NewNumericDate(issuedAt),
			Expiry:   jwt.NewNumericDate(issuedAt.Add(i.tokenTTL)),
		},
		Email:             identity.Email,
		Name:              identity.Name,
		PreferredUsername: identity.PreferredUsername,
	}

	token, err := jwt.Signed(i.signer).Claims(claims).Serialize()
	if err != nil {
		return SessionToken{}, fmt.Errorf("signing a session token: %w", err)
	}

	return SessionToken{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int(i.tokenTTL.Seconds()),
	}, nil
}

// TokenTTL returns the configured lifetime of issued tokens.
func (i *TokenIssuer) TokenTTL() time.Duration {
	return i.tokenTTL
}

// TokenVerifier checks session tokens. Verify is total: any malformed,
// forged, mis-signed or expired token yields no identity rather than an
// error, so callers only ever branch on presence.
type TokenVerifier struct {
	signingSecret []byte

	now func() time.Time
}

func NewTokenVerifier(signingSecret []byte) (*TokenVerifier, error) {
	if len(signingSecret) == 0 {
		return nil, errors.New("signing secret must not be empty")
	}

	return &TokenVerifier{
		signingSecret: signingSecret,
		now:           time.Now,
	}, nil
}

// Verify returns the identity carried by the token, or nil when the token is
// not a currently valid session token. A token without an expiry or without
// a subject is never valid.
func (v *TokenVerifier) Verify(token string) *Identity {
	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil
	}

	var claims sessionClaims
	if err := parsed.Claims(v.signingSecret, &claims); err != nil {
		return nil
	}

	if claims.Expiry == nil {
		return nil
	}

	if err := claims.ValidateWithLeeway(jwt.Expected{Time: v.now()}, 0); err != nil {
		return nil
	}

	if claims.Subject == "" {
		return nil
	}

	return &Identity{
		Subject:           claims.Subject,
		Email:             claims.Email,
		Name:              claims.Name,
		PreferredUsername: claims.PreferredUsername,
	}
}
