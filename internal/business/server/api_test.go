package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avencore/devops-agent/internal/auth"
	"github.com/avencore/devops-agent/internal/chat"
	chatmock "github.com/avencore/devops-agent/internal/chat/mock"
	"github.com/avencore/devops-agent/internal/config"
	"github.com/avencore/devops-agent/internal/devops"
	"github.com/avencore/devops-agent/pkg/apiclient"
)

var testSigningSecret = []byte("0123456789abcdef0123456789abcdef")

func testComponents(t *testing.T) Components {
	t.Helper()

	issuer, err := auth.NewTokenIssuer(testSigningSecret, "devops-agent-backend", time.Hour)
	require.NoError(t, err)
	verifier, err := auth.NewTokenVerifier(testSigningSecret)
	require.NoError(t, err)

	exchanger := &auth.StrategyExchanger{Direct: auth.NewDirectTokenExchanger()}

	return Components{
		Gateway:  auth.NewGateway(exchanger, issuer, verifier),
		Verifier: verifier,
		DevOps:   devops.NewService(),
		Chat:     chat.NewService(chatmock.NewInMemRepository(nil, nil, nil, nil)),
	}
}

func newTestClient(t *testing.T) *apiclient.Client {
	t.Helper()

	cfg := &config.Config{
		BaseConfig: commoncfg.BaseConfig{
			Application: commoncfg.Application{Name: "test-app"},
		},
	}
	require.NoError(t, initMeters(t.Context(), cfg))

	server := httptest.NewServer(NewRouter(cfg, testComponents(t)))
	t.Cleanup(server.Close)

	return apiclient.New(server.URL)
}

func externalToken(t *testing.T) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: []byte("provider-secret-provider-secret!")}, nil)
	require.NoError(t, err)

	token, err := jwt.Signed(signer).Claims(map[string]any{
		"sub":                "u1",
		"email":              "u1@example.com",
		"name":               "User One",
		"preferred_username": "user.one",
	}).Serialize()
	require.NoError(t, err)

	return token
}

func login(t *testing.T, client *apiclient.Client) apiclient.SessionToken {
	t.Helper()

	token, err := client.Login(t.Context(), apiclient.TokenRequest{Token: externalToken(t)})
	require.NoError(t, err)

	return token
}

func TestAPI_AuthFlow(t *testing.T) {
	client := newTestClient(t)

	token := login(t, client)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, 3600, token.ExpiresIn)

	identity, err := client.Me(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "u1@example.com", identity.Email)
	assert.Equal(t, "User One", identity.Name)

	fresh, err := client.Refresh(t.Context())
	require.NoError(t, err)

	identity, err = client.Me(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestAPI_AuthErrors(t *testing.T) {
	client := newTestClient(t)

	t.Run("login with a garbage token", func(t *testing.T) {
		_, err := client.Login(t.Context(), apiclient.TokenRequest{Token: "garbage"})

		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.StatusCode)
		assert.Equal(t, "unauthorized_client", apiErr.Code)
		assert.Equal(t, "invalid credentials", apiErr.ErrorDescription, "login errors must stay generic")
	})

	t.Run("me without a session", func(t *testing.T) {
		_, err := newTestClient(t).Me(t.Context())

		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.StatusCode)
	})

	t.Run("code login is not configured", func(t *testing.T) {
		_, err := client.LoginURL(t.Context())

		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 503, apiErr.StatusCode)
		assert.Equal(t, "temporarily_unavailable", apiErr.Code)
	})

	t.Run("unsupported grant", func(t *testing.T) {
		_, err := client.Login(t.Context(), apiclient.TokenRequest{Code: "some-code", State: "some-state"})

		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "unsupported_grant_type", apiErr.Code)
	})
}

func TestAPI_Projects(t *testing.T) {
	client := newTestClient(t)
	login(t, client)

	list, err := client.ListProjects(t.Context(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Projects)

	project, err := client.CreateProject(t.Context(), apiclient.ProjectCreate{Name: "My Project"})
	require.NoError(t, err)
	assert.Equal(t, "mock-project-123", project.ID)
	assert.Equal(t, "created", project.State)

	_, err = client.GetProject(t.Context(), "project-1")

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestAPI_WorkItems(t *testing.T) {
	client := newTestClient(t)
	login(t, client)

	list, err := client.ListWorkItems(t.Context(), "project-1", apiclient.WorkItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.WorkItems)

	item, err := client.CreateWorkItem(t.Context(), "project-1", apiclient.WorkItemCreate{
		Title:        "Implement user login",
		WorkItemType: "User Story",
	})
	require.NoError(t, err)
	assert.Equal(t, 123, item.ID)
	assert.Equal(t, "New", item.State)
	assert.Equal(t, "project-1", item.ProjectID)

	_, err = client.GetWorkItem(t.Context(), 42)

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)

	_, err = client.CreateWorkItem(t.Context(), "project-1", apiclient.WorkItemCreate{Title: "No type"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestAPI_Chat(t *testing.T) {
	client := newTestClient(t)
	login(t, client)

	response, err := client.SendMessage(t.Context(), apiclient.ChatRequest{Message: "Create a project"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.ConversationID)
	assert.NotEmpty(t, response.Suggestions)
	assert.Equal(t, "u1", response.Metadata["user_id"])

	conversations, err := client.ListConversations(t.Context())
	require.NoError(t, err)
	require.Len(t, conversations, 1)

	conversation, err := client.GetConversation(t.Context(), response.ConversationID)
	require.NoError(t, err)
	assert.Len(t, conversation.Messages, 2)

	_, err = client.GetConversation(t.Context(), "conv-unknown")

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}
