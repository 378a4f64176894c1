package oidc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avencore/devops-agent/internal/oidc"
)

func TestClient_Discover(t *testing.T) {
	var hits atomic.Int32

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		require.Equal(t, "/.well-known/openid-configuration", r.URL.Path)

		_ = json.NewEncoder(w).Encode(oidc.Configuration{
			Issuer:                server.URL,
			AuthorizationEndpoint: server.URL + "/oauth2/v2.0/authorize",
			TokenEndpoint:         server.URL + "/oauth2/v2.0/token",
			JwksURI:               server.URL + "/discovery/v2.0/keys",
		})
	}))
	defer server.Close()

	client := oidc.NewClient(nil)

	conf, err := client.Discover(t.Context(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/oauth2/v2.0/authorize", conf.AuthorizationEndpoint)
	assert.Equal(t, server.URL+"/oauth2/v2.0/token", conf.TokenEndpoint)

	// second call is served from the cache
	again, err := client.Discover(t.Context(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, conf, again)
	assert.Equal(t, int32(1), hits.Load(), "discovery document must be cached")
}

func TestClient_DiscoverError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := oidc.NewClient(nil)

	_, err := client.Discover(t.Context(), server.URL)
	assert.Error(t, err)
}
