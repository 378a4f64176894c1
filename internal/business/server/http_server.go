package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/auth"
	"github.com/avencore/devops-agent/internal/chat"
	"github.com/avencore/devops-agent/internal/config"
	"github.com/avencore/devops-agent/internal/devops"
)

// Components is everything the HTTP API serves. All fields are constructed
// eagerly at startup; LoginURL is nil when the deployment only accepts
// direct token exchange.
type Components struct {
	Gateway  *auth.Gateway
	Verifier *auth.TokenVerifier
	LoginURL LoginURLProvider
	DevOps   *devops.Service
	Chat     *chat.Service
}

// NewRouter builds the public API router.
func NewRouter(cfg *config.Config, components Components) *mux.Router {
	authH := &authHandler{gateway: components.Gateway, loginURL: components.LoginURL}
	projectH := &projectHandler{service: components.DevOps}
	workItemH := &workItemHandler{service: components.DevOps}
	chatH := &chatHandler{service: components.Chat}

	router := mux.NewRouter()
	router.Use(newTraceMiddleware(cfg))

	router.HandleFunc("/probe/ping", pingHandlerFunc()).Methods(http.MethodGet).Name("ping")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/token", authH.Token).Methods(http.MethodPost).Name("auth_token")
	api.HandleFunc("/auth/login-url", authH.LoginURL).Methods(http.MethodGet).Name("auth_login_url")
	api.HandleFunc("/auth/refresh", authH.Refresh).Methods(http.MethodPost).Name("auth_refresh")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(newAuthnMiddleware(components.Verifier))

	protected.HandleFunc("/auth/me", authH.Me).Methods(http.MethodGet).Name("auth_me")

	protected.HandleFunc("/projects", projectH.List).Methods(http.MethodGet).Name("projects_list")
	protected.HandleFunc("/projects", projectH.Create).Methods(http.MethodPost).Name("projects_create")
	protected.HandleFunc("/projects/{project_id}", projectH.Get).Methods(http.MethodGet).Name("projects_get")
	protected.HandleFunc("/projects/{project_id}", projectH.Update).Methods(http.MethodPatch).Name("projects_update")
	protected.HandleFunc("/projects/{project_id}", projectH.Delete).Methods(http.MethodDelete).Name("projects_delete")

	protected.HandleFunc("/projects/{project_id}/workitems", workItemH.List).Methods(http.MethodGet).Name("workitems_list")
	protected.HandleFunc("/projects/{project_id}/workitems", workItemH.Create).Methods(http.MethodPost).Name("workitems_create")
	protected.HandleFunc("/workitems/{work_item_id}", workItemH.Get).Methods(http.MethodGet).Name("workitems_get")
	protected.HandleFunc("/workitems/{work_item_id}", workItemH.Update).Methods(http.MethodPatch).Name("workitems_update")
	protected.HandleFunc("/workitems/{work_item_id}", workItemH.Delete).Methods(http.MethodDelete).Name("workitems_delete")

	protected.HandleFunc("/chat/message", chatH.SendMessage).Methods(http.MethodPost).Name("chat_message")
	protected.HandleFunc("/chat/conversations", chatH.ListConversations).Methods(http.MethodGet).Name("chat_conversations")
	protected.HandleFunc("/chat/conversations/{conversation_id}", chatH.GetConversation).Methods(http.MethodGet).Name("chat_conversation")

	return router
}

// StartHTTPServer starts the public API server and blocks until the context
// is cancelled, then shuts it down gracefully.
func StartHTTPServer(ctx context.Context, cfg *config.Config, components Components) error {
	if err := initMeters(ctx, cfg); err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, components),
	}

	slogctx.Info(ctx, "Starting a listener", "address", server.Addr)

	// Parse network if the address if provided in the format of network://address.
	// Otherwise use tcp network by default. Some integration tests are easier to implement
	// by binding a listener to a unix socket rather than a TCP port,
	// since we don't need to look up for a free port or scan /proc/net on Linux or call sysctl on macOS
	// to discover which port the process is bound to.
	network := "tcp"
	if idx := strings.IndexRune(server.Addr, ':'); idx != -1 && len(server.Addr) > idx+3 && server.Addr[idx:idx+3] == "://" {
		network = server.Addr[:idx]
		server.Addr = server.Addr[idx+3:]
	}

	listener, err := new(net.ListenConfig).Listen(ctx, network, server.Addr)
	if err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed to create a listener")
	}

	slogctx.Info(ctx, "A listener started", "address", listener.Addr().String())

	go func() {
		slogctx.Info(ctx, "Serving an HTTP server", "address", listener.Addr().String())
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogctx.Error(ctx, "Failed to serve an HTTP server", "error", err)
		}

		slogctx.Info(ctx, "Stopped an HTTP server")
	}()

	<-ctx.Done()

	shutdownCtx, shutdownRelease := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return oops.In("HTTP Server").
			WithContext(ctx).
			Wrapf(err, "Failed shutting down HTTP server")
	}

	slogctx.Info(ctx, "Completed graceful shutdown of HTTP server")

	return nil
}
