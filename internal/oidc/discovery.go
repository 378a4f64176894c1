// Package oidc fetches and caches the identity provider's OpenID Connect
// discovery metadata. The authorization and token endpoints used by the
// login flow always come from the discovery document, never from hardcoded
// paths.
package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const wellKnownOpenIDConfigPath = "/.well-known/openid-configuration"

const (
	cacheTTL        = 1 * time.Hour
	cleanupInterval = 10 * time.Minute
	requestTimeout  = 10 * time.Second
)

// Client resolves the discovery document of an issuer and caches it.
type Client struct {
	httpClient *http.Client
	cache      *gocache.Cache
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		httpClient: httpClient,
		cache:      gocache.New(cacheTTL, cleanupInterval),
	}
}

// Discover returns the OpenID configuration for the issuer, from cache when
// a recent document is available.
func (c *Client) Discover(ctx context.Context, issuerURL string) (Configuration, error) {
	if cached, ok := c.cache.Get(issuerURL); ok {
		//nolint:forcetypeassert
		return cached.(Configuration), nil
	}

	conf, err := c.fetch(ctx, issuerURL)
	if err != nil {
		return Configuration{}, err
	}

	c.cache.Set(issuerURL, conf, gocache.DefaultExpiration)

	return conf, nil
}

func (c *Client) fetch(ctx context.Context, issuerURL string) (Configuration, error) {
	u, err := url.JoinPath(issuerURL, wellKnownOpenIDConfigPath)
	if err != nil {
		return Configuration{}, fmt.Errorf("building path to the well-known openid-config endpoint: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Configuration{}, fmt.Errorf("creating an HTTP request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Configuration{}, fmt.Errorf("doing an HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Configuration{}, fmt.Errorf("well-known openid config request failed with status: %d", resp.StatusCode)
	}

	var conf Configuration
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
		return Configuration{}, fmt.Errorf("decoding a well-known openid config: %w", err)
	}

	return conf, nil
}
