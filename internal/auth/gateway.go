package auth

import (
	"context"

	"github.com/samber/oops"

	"github.com/avencore/devops-agent/internal/serviceerr"
)

// Gateway is the authentication facade used by the HTTP layer. It composes
// the identity exchanger, the token issuer and the token verifier into the
// three operations the API exposes: login, current identity and refresh.
type Gateway struct {
	exchanger IdentityExchanger
	issuer    *TokenIssuer
	verifier  *TokenVerifier
}

func NewGateway(exchanger IdentityExchanger, issuer *TokenIssuer, verifier *TokenVerifier) *Gateway {
	return &Gateway{
		exchanger: exchanger,
		issuer:    issuer,
		verifier:  verifier,
	}
}

// Login exchanges an external credential for a self-issued session token.
func (g *Gateway) Login(ctx context.Context, credential Credential) (SessionToken, error) {
	errs := oops.In("auth_gateway")

	identity, err := g.exchanger.Exchange(ctx, credential)
	if err != nil {
		return SessionToken{}, errs.Wrapf(err, "exchanging a credential")
	}

	token, err := g.issuer.Issue(*identity)
	if err != nil {
		return SessionToken{}, errs.Wrapf(err, "issuing a session token")
	}

	return token, nil
}

// CurrentIdentity resolves the identity behind a session token.
func (g *Gateway) CurrentIdentity(token string) (*Identity, error) {
	identity := g.verifier.Verify(token)
	if identity == nil {
		return nil, serviceerr.ErrUnauthorized
	}

	return identity, nil
}

// Refresh issues a fresh session token for the holder of a still-valid one.
// An expired token cannot be refreshed; the client has to log in again.
func (g *Gateway) Refresh(token string) (SessionToken, error) {
	identity := g.verifier.Verify(token)
	if identity == nil {
		return SessionToken{}, serviceerr.ErrUnauthorized
	}

	fresh, err := g.issuer.Issue(*identity)
	if err != nil {
		return SessionToken{}, oops.In("auth_gateway").Wrapf(err, "issuing a session token")
	}

	return fresh, nil
}
