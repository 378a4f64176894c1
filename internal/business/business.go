// Package business wires the application components together and runs the
// public API server. Everything is constructed eagerly at startup: a
// misconfigured provider or unreachable backing store fails the boot instead
// of the first request.
package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/valkey-io/valkey-go"
	"golang.org/x/oauth2"

	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/auth"
	authvalkey "github.com/avencore/devops-agent/internal/auth/valkey"
	"github.com/avencore/devops-agent/internal/business/server"
	"github.com/avencore/devops-agent/internal/chat"
	chatsql "github.com/avencore/devops-agent/internal/chat/sql"
	"github.com/avencore/devops-agent/internal/config"
	"github.com/avencore/devops-agent/internal/devops"
	"github.com/avencore/devops-agent/internal/oidc"
)

var defaultScopes = []string{"openid", "profile", "email"}

// Main starts the public HTTP REST API server.
func Main(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating the configuration: %w", err)
	}

	components, closeFn, err := initComponents(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the application components: %w", err)
	}

	defer closeFn()

	return server.StartHTTPServer(ctx, cfg, components)
}

func initComponents(ctx context.Context, cfg *config.Config) (_ server.Components, closeFn func(), _ error) {
	signingSecret, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.SigningSecret)
	if err != nil {
		return server.Components{}, nil, fmt.Errorf("loading the signing secret: %w", err)
	}

	issuer, err := auth.NewTokenIssuer(signingSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return server.Components{}, nil, fmt.Errorf("creating the token issuer: %w", err)
	}

	verifier, err := auth.NewTokenVerifier(signingSecret)
	if err != nil {
		return server.Components{}, nil, fmt.Errorf("creating the token verifier: %w", err)
	}

	closers := []func(){}
	closeFn = func() {
		for _, fn := range closers {
			fn()
		}
	}

	exchanger, loginURL, closer, err := initExchanger(ctx, cfg)
	if err != nil {
		return server.Components{}, nil, err
	}

	if closer != nil {
		closers = append(closers, closer)
	}

	connStr, err := config.MakeConnStr(cfg.Database)
	if err != nil {
		closeFn()
		return server.Components{}, nil, fmt.Errorf("making dsn from config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		closeFn()
		return server.Components{}, nil, fmt.Errorf("parsing the pgxpool config: %w", err)
	}

	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		closeFn()
		return server.Components{}, nil, fmt.Errorf("initialising pgxpool connection: %w", err)
	}

	closers = append(closers, db.Close)

	components := server.Components{
		Gateway:  auth.NewGateway(exchanger, issuer, verifier),
		Verifier: verifier,
		LoginURL: loginURL,
		DevOps:   devops.NewService(),
		Chat:     chat.NewService(chatsql.NewRepository(db)),
	}

	return components, closeFn, nil
}

// initExchanger builds the identity exchange strategy: a fixed mock identity
// for development, otherwise direct token decoding plus, when a client is
// configured, the authorization-code flow against the tenant's endpoints.
func initExchanger(ctx context.Context, cfg *config.Config) (auth.IdentityExchanger, server.LoginURLProvider, func(), error) {
	if cfg.Auth.MockIdentity {
		slogctx.Warn(ctx, "Identity mocking is enabled, all logins resolve to the mock identity")
		return auth.NewMockExchanger(), nil, nil, nil
	}

	clientID, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.ClientID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading the client ID: %w", err)
	}

	strategy := &auth.StrategyExchanger{Direct: auth.NewDirectTokenExchanger()}

	if len(clientID) == 0 {
		slogctx.Info(ctx, "No client ID configured, running with direct token exchange only")
		return strategy, nil, nil, nil
	}

	clientSecret, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.ClientSecret)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading the client secret: %w", err)
	}

	issuerURL := fmt.Sprintf("%s/%s/v2.0", strings.TrimSuffix(cfg.Auth.Authority, "/"), cfg.Auth.TenantID)

	oidcConf, err := oidc.NewClient(nil).Discover(ctx, issuerURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("discovering the OpenID configuration of %s: %w", issuerURL, err)
	}

	scopes := cfg.Auth.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	oauthConf := oauth2.Config{
		ClientID:     string(clientID),
		ClientSecret: string(clientSecret),
		RedirectURL:  cfg.Auth.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  oidcConf.AuthorizationEndpoint,
			TokenURL: oidcConf.TokenEndpoint,
		},
	}

	states, closer, err := initStateRepository(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	codeExchanger := auth.NewCodeExchanger(oauthConf, states, cfg.Auth.LoginStateTTL)
	strategy.Code = codeExchanger

	return strategy, codeExchanger, closer, nil
}

func initStateRepository(cfg *config.Config) (auth.StateRepository, func(), error) {
	valkeyHost, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Host)
	if err != nil {
		return nil, nil, fmt.Errorf("loading valkey host: %w", err)
	}

	valkeyUsername, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.User)
	if err != nil {
		return nil, nil, fmt.Errorf("loading valkey username: %w", err)
	}

	valkeyPassword, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("loading valkey password: %w", err)
	}

	valkeyClient, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{string(valkeyHost)},
		Username:    string(valkeyUsername),
		Password:    string(valkeyPassword),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating a new valkey client: %w", err)
	}

	return authvalkey.NewRepository(valkeyClient, cfg.ValKey.Prefix), valkeyClient.Close, nil
}
