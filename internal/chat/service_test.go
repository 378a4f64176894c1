package chat_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avencore/devops-agent/internal/auth"
	"github.com/avencore/devops-agent/internal/chat"
	chatmock "github.com/avencore/devops-agent/internal/chat/mock"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

var testIdentity = auth.Identity{Subject: "u1", Email: "u1@example.com", Name: "User One"}

func TestService_SendMessage(t *testing.T) {
	t.Run("starts a conversation", func(t *testing.T) {
		repository := chatmock.NewInMemRepository(nil, nil, nil, nil)
		service := chat.NewService(repository)

		response, err := service.SendMessage(t.Context(), testIdentity, chat.Request{
			Message: "Create a new project called 'My Project'",
			Context: map[string]string{"organization": "myorg"},
		})
		require.NoError(t, err)

		assert.NotEmpty(t, response.ConversationID)
		assert.Contains(t, response.Message, "Create a new project called 'My Project'")
		assert.NotEmpty(t, response.Suggestions)
		assert.Equal(t, "u1", response.Metadata["user_id"])
		assert.Equal(t, "myorg", response.Metadata["organization"])

		conversation, ok := repository.Conversations[response.ConversationID]
		require.True(t, ok, "conversation must be persisted")
		assert.Equal(t, "u1", conversation.UserID)
		require.Len(t, conversation.Messages, 2)
		assert.Equal(t, chat.RoleUser, conversation.Messages[0].Role)
		assert.Equal(t, chat.RoleAssistant, conversation.Messages[1].Role)
	})

	t.Run("continues a conversation", func(t *testing.T) {
		repository := chatmock.NewInMemRepository(nil, nil, nil, nil)
		service := chat.NewService(repository)

		first, err := service.SendMessage(t.Context(), testIdentity, chat.Request{Message: "First"})
		require.NoError(t, err)

		second, err := service.SendMessage(t.Context(), testIdentity, chat.Request{
			Message:        "Second",
			ConversationID: first.ConversationID,
		})
		require.NoError(t, err)
		assert.Equal(t, first.ConversationID, second.ConversationID)

		conversation := repository.Conversations[first.ConversationID]
		assert.Len(t, conversation.Messages, 4)
	})

	t.Run("rejects an empty message", func(t *testing.T) {
		service := chat.NewService(chatmock.NewInMemRepository(nil, nil, nil, nil))

		_, err := service.SendMessage(t.Context(), testIdentity, chat.Request{})

		var serviceErr *serviceerr.Error
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, serviceerr.CodeInvalidRequest, serviceErr.Err)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		service := chat.NewService(chatmock.NewInMemRepository(nil, nil, nil, nil))

		_, err := service.SendMessage(t.Context(), testIdentity, chat.Request{
			Message:        "Hello",
			ConversationID: "conv-unknown",
		})
		assert.ErrorIs(t, err, serviceerr.ErrNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		storeErr := errors.New("db down")
		service := chat.NewService(chatmock.NewInMemRepository(storeErr, nil, nil, nil))

		_, err := service.SendMessage(t.Context(), testIdentity, chat.Request{Message: "Hello"})
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestService_Conversations(t *testing.T) {
	repository := chatmock.NewInMemRepository(nil, nil, nil, nil)
	service := chat.NewService(repository)

	empty, err := service.Conversations(t.Context(), testIdentity)
	require.NoError(t, err)
	assert.Empty(t, empty)

	response, err := service.SendMessage(t.Context(), testIdentity, chat.Request{Message: "Hello"})
	require.NoError(t, err)

	_, err = service.SendMessage(t.Context(), auth.Identity{Subject: "u2"}, chat.Request{Message: "Other user"})
	require.NoError(t, err)

	conversations, err := service.Conversations(t.Context(), testIdentity)
	require.NoError(t, err)
	require.Len(t, conversations, 1, "only the user's own conversations are listed")
	assert.Equal(t, response.ConversationID, conversations[0].ID)
}

func TestService_Conversation(t *testing.T) {
	repository := chatmock.NewInMemRepository(nil, nil, nil, nil)
	service := chat.NewService(repository)

	response, err := service.SendMessage(t.Context(), testIdentity, chat.Request{Message: "Hello"})
	require.NoError(t, err)

	conversation, err := service.Conversation(t.Context(), testIdentity, response.ConversationID)
	require.NoError(t, err)
	assert.Len(t, conversation.Messages, 2)

	if diff := cmp.Diff(repository.Conversations[response.ConversationID].Messages, conversation.Messages); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}

	_, err = service.Conversation(t.Context(), auth.Identity{Subject: "u2"}, response.ConversationID)
	assert.ErrorIs(t, err, serviceerr.ErrNotFound, "foreign conversations are not found")
}
