// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP HTTPServer `yaml:"http"`

	Database Database `yaml:"database"`
	ValKey   ValKey   `yaml:"valkey"`
	Migrate  Migrate  `yaml:"migrate"`
	Auth     Auth     `yaml:"auth"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

type Database struct {
	Name     string              `yaml:"name"`
	Port     string              `yaml:"port"`
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
}

type ValKey struct {
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	Prefix   string              `yaml:"prefix"`
}

type Migrate struct {
	Source string `yaml:"source" default:"file://./sql"`
}

// Auth configures the token lifecycle: the Entra ID tenant the service
// delegates logins to and the self-issued session JWTs.
type Auth struct {
	Authority    string              `yaml:"authority" default:"https://login.microsoftonline.com"`
	TenantID     string              `yaml:"tenantID"`
	ClientID     commoncfg.SourceRef `yaml:"clientID"`
	ClientSecret commoncfg.SourceRef `yaml:"clientSecret"`
	RedirectURI  string              `yaml:"redirectURI" default:"http://localhost:7860/callback"`
	Scopes       []string            `yaml:"scopes"`

	SigningSecret    commoncfg.SourceRef `yaml:"signingSecret"`
	SigningAlgorithm string              `yaml:"signingAlgorithm" default:"HS256"`
	TokenTTL         time.Duration       `yaml:"tokenTTL" default:"1h"`
	Issuer           string              `yaml:"issuer" default:"devops-agent-backend"`

	LoginStateTTL time.Duration `yaml:"loginStateTTL" default:"10m"`

	// MockIdentity short-circuits the external exchange with a fixed
	// development identity. Refused outside development environments.
	MockIdentity bool `yaml:"mockIdentity"`
}

const productionEnvironment = "production"

// Validate checks the startup-time invariants of the auth configuration.
// A violation here is fatal: the application must not come up half-configured.
func (c *Config) Validate() error {
	if c.Auth.TenantID == "" {
		return errors.New("auth.tenantID is required")
	}

	if c.Auth.MockIdentity && c.Application.Environment == productionEnvironment {
		return fmt.Errorf("auth.mockIdentity must not be enabled in the %s environment", productionEnvironment)
	}

	secret, err := commoncfg.LoadValueFromSourceRef(c.Auth.SigningSecret)
	if err != nil {
		return fmt.Errorf("loading auth.signingSecret: %w", err)
	}
	if len(secret) == 0 {
		return errors.New("auth.signingSecret must not be empty")
	}

	return nil
}
