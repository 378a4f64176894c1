package server

import (
	"context"
	"errors"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/auth"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

// LoginURLProvider is implemented by exchangers that drive the
// authorization-code flow. Deployments using direct token exchange run
// without one.
type LoginURLProvider interface {
	LoginURL(ctx context.Context) (url, state string, err error)
}

type authHandler struct {
	gateway  *auth.Gateway
	loginURL LoginURLProvider
}

type tokenRequest struct {
	Token string `json:"token,omitempty"`
	Code  string `json:"code,omitempty"`
	State string `json:"state,omitempty"`
}

// Token exchanges an external credential for a session token.
func (h *authHandler) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request tokenRequest
	if err := decodeBody(r, &request); err != nil {
		newBadRequest(ctx, w, "invalid request body")
		return
	}

	token, err := h.gateway.Login(ctx, auth.Credential{
		ExternalToken: request.Token,
		Code:          request.Code,
		State:         request.State,
	})
	if err != nil {
		slogctx.Error(ctx, "Failed to login", "error", err)
		writeError(ctx, w, loginErrorFor(err))

		return
	}

	writeJSON(ctx, w, http.StatusOK, token)
}

// loginErrorFor keeps provider-reported codes visible to the client but
// collapses everything else into the generic invalid-credentials error, so
// the response never tells an attacker which check failed.
func loginErrorFor(err error) error {
	var serviceErr *serviceerr.Error
	if !errors.As(err, &serviceErr) {
		return serviceerr.ErrUnknown
	}

	if serviceErr.Err == serviceerr.CodeUnauthorizedClient {
		return serviceerr.ErrUnauthorized
	}

	return serviceErr
}

type loginURLResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// LoginURL starts an authorization-code login.
func (h *authHandler) LoginURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.loginURL == nil {
		writeError(ctx, w, &serviceerr.Error{
			Err:         serviceerr.CodeTemporarilyUnavailable,
			Description: "authorization-code login is not configured",
		})

		return
	}

	url, state, err := h.loginURL.LoginURL(ctx)
	if err != nil {
		slogctx.Error(ctx, "Failed to build a login URL", "error", err)
		writeError(ctx, w, serviceerr.ErrUnknown)

		return
	}

	writeJSON(ctx, w, http.StatusOK, loginURLResponse{AuthURL: url, State: state})
}

// Me returns the identity behind the presented session token.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := IdentityFromContext(ctx)
	if !ok {
		writeError(ctx, w, serviceerr.ErrUnauthorized)
		return
	}

	writeJSON(ctx, w, http.StatusOK, identity)
}

// Refresh issues a fresh session token for a still-valid one.
func (h *authHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, ok := bearerToken(r)
	if !ok {
		writeError(ctx, w, serviceerr.ErrUnauthorized)
		return
	}

	fresh, err := h.gateway.Refresh(token)
	if err != nil {
		writeError(ctx, w, serviceerr.ErrUnauthorized)
		return
	}

	writeJSON(ctx, w, http.StatusOK, fresh)
}
