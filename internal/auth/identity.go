// Package auth implements the token lifecycle of the service: resolving an
// identity from an Entra ID credential, minting self-issued session JWTs and
// verifying them on every protected request. Sessions are stateless: a
// token's validity is fully contained in its signature, algorithm and expiry,
// and there is no server-side session table or revocation.
package auth

import "time"

// Identity is the authenticated principal as carried in session tokens.
// Immutable once constructed; two identities are the same principal when
// their subjects match.
type Identity struct {
	Subject           string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// Equal reports whether both identities refer to the same principal.
func (i Identity) Equal(other Identity) bool {
	return i.Subject == other.Subject
}

// TokenTypeBearer is the only token scheme the service issues.
const TokenTypeBearer = "bearer"

// SessionToken is the response of a successful login or refresh.
type SessionToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Credential is the external credential presented at login: either an
// externally issued token, or an authorization code with its state value.
// Its lifetime and validity are owned by the identity provider.
type Credential struct {
	ExternalToken string
	Code          string
	State         string
}

// State binds an issued authorization request to its eventual callback.
// It is stored server-side with a bounded lifetime and consumed exactly once.
type State struct {
	ID           string
	PKCEVerifier string
	Expiry       time.Time
}
