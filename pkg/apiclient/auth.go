package apiclient

import (
	"context"
	"net/http"
)

type SessionToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type Identity struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

type TokenRequest struct {
	Token string `json:"token,omitempty"`
	Code  string `json:"code,omitempty"`
	State string `json:"state,omitempty"`
}

// Login exchanges an external credential for a session token and remembers
// it for subsequent calls.
func (c *Client) Login(ctx context.Context, request TokenRequest) (SessionToken, error) {
	var token SessionToken
	if err := c.do(ctx, http.MethodPost, "/api/auth/token", nil, request, &token); err != nil {
		return SessionToken{}, err
	}

	c.sessionToken = token.AccessToken

	return token, nil
}

// LoginURL is the entry point of an authorization-code login: the provider
// URL to send the user agent to and the state the callback must echo back.
type LoginURL struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// LoginURL asks the backend for the provider URL starting an
// authorization-code login.
func (c *Client) LoginURL(ctx context.Context) (LoginURL, error) {
	var response LoginURL
	if err := c.do(ctx, http.MethodGet, "/api/auth/login-url", nil, nil, &response); err != nil {
		return LoginURL{}, err
	}

	return response, nil
}

// Me returns the identity behind the current session token.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &identity); err != nil {
		return Identity{}, err
	}

	return identity, nil
}

// Refresh trades the current session token for a fresh one.
func (c *Client) Refresh(ctx context.Context) (SessionToken, error) {
	var token SessionToken
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, nil, &token); err != nil {
		return SessionToken{}, err
	}

	c.sessionToken = token.AccessToken

	return token, nil
}
