package config_test

import (
	"testing"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"

	"github.com/avencore/devops-agent/internal/config"
)

func embeddedSecret(value string) commoncfg.SourceRef {
	return commoncfg.SourceRef{Source: "embedded", Value: value}
}

func validAuth() config.Auth {
	return config.Auth{
		Authority:        "https://login.microsoftonline.com",
		TenantID:         "tenant-123",
		ClientID:         embeddedSecret("client-123"),
		SigningSecret:    embeddedSecret("0123456789abcdef0123456789abcdef"),
		SigningAlgorithm: "HS256",
		TokenTTL:         time.Hour,
		Issuer:           "devops-agent-backend",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*config.Config)
		errAssert assert.ErrorAssertionFunc
	}{
		{
			name:      "Valid configuration",
			mutate:    func(*config.Config) {},
			errAssert: assert.NoError,
		},
		{
			name: "Missing tenant ID",
			mutate: func(cfg *config.Config) {
				cfg.Auth.TenantID = ""
			},
			errAssert: assert.Error,
		},
		{
			name: "Empty signing secret",
			mutate: func(cfg *config.Config) {
				cfg.Auth.SigningSecret = embeddedSecret("")
			},
			errAssert: assert.Error,
		},
		{
			name: "Mock identity in production",
			mutate: func(cfg *config.Config) {
				cfg.Auth.MockIdentity = true
				cfg.Application.Environment = "production"
			},
			errAssert: assert.Error,
		},
		{
			name: "Mock identity in development",
			mutate: func(cfg *config.Config) {
				cfg.Auth.MockIdentity = true
				cfg.Application.Environment = "development"
			},
			errAssert: assert.NoError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Auth: validAuth()}
			tt.mutate(cfg)

			tt.errAssert(t, cfg.Validate())
		})
	}
}

func TestMakeConnStr(t *testing.T) {
	conf := config.Database{
		Name:     "devopsagent",
		Port:     "5432",
		Host:     embeddedSecret("localhost"),
		User:     embeddedSecret("postgres"),
		Password: embeddedSecret("secret"),
	}

	connStr, err := config.MakeConnStr(conf)
	assert.NoError(t, err)
	assert.Equal(t, "host=localhost user=postgres password=secret dbname=devopsagent port=5432", connStr)
}
