package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"golang.org/x/oauth2"

	"github.com/avencore/devops-agent/internal/pkce"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

// IdentityExchanger turns an external credential into an identity. The
// credential is validated by the identity provider; the exchanger only
// extracts and normalizes the principal.
type IdentityExchanger interface {
	Exchange(ctx context.Context, credential Credential) (*Identity, error)
}

// externalClaims is the subset of an Entra ID token payload the service
// reads. Field fallbacks cover the v1.0 and v2.0 token shapes.
type externalClaims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	UniqueName        string `json:"unique_name"`
	UPN               string `json:"upn"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
}

func (c externalClaims) identity() (*Identity, error) {
	if c.Subject == "" {
		return nil, serviceerr.ErrUnauthorized
	}

	email := c.Email
	if email == "" {
		email = c.UniqueName
	}

	preferredUsername := c.PreferredUsername
	if preferredUsername == "" {
		preferredUsername = c.UPN
	}

	return &Identity{
		Subject:           c.Subject,
		Email:             email,
		Name:              c.Name,
		PreferredUsername: preferredUsername,
	}, nil
}

var externalTokenAlgs = []jose.SignatureAlgorithm{jose.RS256, jose.PS256, jose.ES256, jose.HS256}

// decodeExternalToken reads the claims of an externally issued token without
// checking its signature. The provider already validated the token when it
// issued it; the service never trusts these claims for anything beyond
// seeding its own signed session token.
func decodeExternalToken(token string) (*Identity, error) {
	parsed, err := jwt.ParseSigned(token, externalTokenAlgs)
	if err != nil {
		return nil, serviceerr.Unauthorizedf("parsing an external token: %s", err)
	}

	var claims externalClaims
	if err := parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return nil, serviceerr.Unauthorizedf("decoding external token claims: %s", err)
	}

	return claims.identity()
}

// DirectTokenExchanger accepts a token the frontend already obtained from
// the provider and lifts its claims into an identity.
type DirectTokenExchanger struct{}

func NewDirectTokenExchanger() *DirectTokenExchanger {
	return &DirectTokenExchanger{}
}

func (e *DirectTokenExchanger) Exchange(_ context.Context, credential Credential) (*Identity, error) {
	if credential.ExternalToken == "" {
		return nil, &serviceerr.Error{Err: serviceerr.CodeInvalidRequest, Description: "missing token"}
	}

	return decodeExternalToken(credential.ExternalToken)
}

// CodeExchanger redeems an authorization code at the provider's token
// endpoint. Login states are single use and expire on their own; the PKCE
// verifier stored with the state ties the redemption to the original
// authorization request.
type CodeExchanger struct {
	oauthConf oauth2.Config
	states    StateRepository
	stateTTL  time.Duration

	now func() time.Time
}

func NewCodeExchanger(oauthConf oauth2.Config, states StateRepository, stateTTL time.Duration) *CodeExchanger {
	return &CodeExchanger{
		oauthConf: oauthConf,
		states:    states,
		stateTTL:  stateTTL,
		now:       time.Now,
	}
}

// LoginURL creates a fresh login state and returns the provider URL the user
// agent must be sent to, together with the state the callback must present.
func (e *CodeExchanger) LoginURL(ctx context.Context) (url, state string, _ error) {
	verifier := pkce.NewVerifier()
	stateID := pkce.NewState()

	loginState := State{
		ID:           stateID,
		PKCEVerifier: verifier,
		Expiry:       e.now().Add(e.stateTTL),
	}
	if err := e.states.StoreState(ctx, loginState); err != nil {
		return "", "", fmt.Errorf("storing a login state: %w", err)
	}

	return e.oauthConf.AuthCodeURL(stateID, oauth2.S256ChallengeOption(verifier)), stateID, nil
}

func (e *CodeExchanger) Exchange(ctx context.Context, credential Credential) (*Identity, error) {
	if credential.Code == "" {
		return nil, &serviceerr.Error{Err: serviceerr.CodeInvalidRequest, Description: "missing authorization code"}
	}

	state, err := e.states.LoadState(ctx, credential.State)
	if err != nil {
		return nil, serviceerr.ErrStateExpired
	}

	// consume the state before redeeming the code so a replay never reaches
	// the provider twice
	if err := e.states.DeleteState(ctx, state.ID); err != nil {
		return nil, fmt.Errorf("deleting a login state: %w", err)
	}

	if e.now().After(state.Expiry) {
		return nil, serviceerr.ErrStateExpired
	}

	token, err := e.oauthConf.Exchange(ctx, credential.Code, oauth2.VerifierOption(state.PKCEVerifier))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, serviceerr.Provider(retrieveErr.ErrorCode, retrieveErr.ErrorDescription)
		}

		return nil, serviceerr.Unauthorizedf("exchanging an authorization code: %s", err)
	}

	externalToken, _ := token.Extra("id_token").(string)
	if externalToken == "" {
		externalToken = token.AccessToken
	}

	return decodeExternalToken(externalToken)
}

// StrategyExchanger dispatches on the credential shape: an authorization
// code goes through the code exchange, anything else through the direct
// token path.
type StrategyExchanger struct {
	Direct IdentityExchanger
	Code   IdentityExchanger
}

func (e *StrategyExchanger) Exchange(ctx context.Context, credential Credential) (*Identity, error) {
	if credential.Code != "" {
		if e.Code == nil {
			return nil, &serviceerr.Error{
				Err:         serviceerr.CodeUnsupportedGrantType,
				Description: "authorization-code login is not configured",
			}
		}

		return e.Code.Exchange(ctx, credential)
	}

	return e.Direct.Exchange(ctx, credential)
}

// MockIdentity is what every login resolves to when identity mocking is
// enabled. Development only; refused in production configuration.
var MockIdentity = Identity{
	Subject:           "mock-user-123",
	Email:             "mock@example.com",
	Name:              "Mock User",
	PreferredUsername: "mockuser",
}

// MockExchanger resolves every credential to MockIdentity.
type MockExchanger struct{}

func NewMockExchanger() *MockExchanger {
	return &MockExchanger{}
}

func (e *MockExchanger) Exchange(context.Context, Credential) (*Identity, error) {
	identity := MockIdentity

	return &identity, nil
}
