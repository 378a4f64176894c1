package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/auth"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

const titleMaxLength = 80

var errEmptyMessage = &serviceerr.Error{Err: serviceerr.CodeInvalidRequest, Description: "message is required"}

var defaultSuggestions = []string{
	"Would you like me to create this for you?",
	"Should I set up the basic configuration?",
	"Do you need help with the next steps?",
}

// Service runs the conversation flow: record the user's message, produce the
// assistant's reply and record that too. The reply is canned until the agent
// pipeline is wired in.
type Service struct {
	repository Repository

	now func() time.Time
}

func NewService(repository Repository) *Service {
	return &Service{
		repository: repository,
		now:        time.Now,
	}
}

// SendMessage appends the user's message to the conversation, starting a new
// conversation when no ID is given, and returns the assistant's reply.
func (s *Service) SendMessage(ctx context.Context, identity auth.Identity, request Request) (Response, error) {
	errs := oops.In("chat_service")

	if request.Message == "" {
		return Response{}, errs.Wrap(errEmptyMessage)
	}

	now := s.now()

	conversationID := request.ConversationID
	if conversationID == "" {
		conversationID = "conv-" + uuid.NewString()

		conversation := Conversation{
			ID:        conversationID,
			UserID:    identity.Subject,
			Title:     title(request.Message),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repository.CreateConversation(ctx, conversation); err != nil {
			return Response{}, errs.Wrapf(err, "creating a conversation")
		}

		slogctx.Info(ctx, "Started a conversation", "conversation_id", conversationID)
	} else {
		if _, err := s.repository.LoadConversation(ctx, identity.Subject, conversationID); err != nil {
			return Response{}, errs.Wrapf(err, "loading a conversation")
		}
	}

	userMessage := Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   request.Message,
		Timestamp: now,
	}
	if err := s.repository.AppendMessage(ctx, conversationID, userMessage); err != nil {
		return Response{}, errs.Wrapf(err, "appending the user message")
	}

	reply := fmt.Sprintf(
		"I understand you want to: %s. This is a mock response - AI processing will be implemented with Semantic Kernel.",
		request.Message,
	)

	assistantMessage := Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   reply,
		Timestamp: s.now(),
	}
	if err := s.repository.AppendMessage(ctx, conversationID, assistantMessage); err != nil {
		return Response{}, errs.Wrapf(err, "appending the assistant message")
	}

	metadata := map[string]string{"user_id": identity.Subject}
	for key, value := range request.Context {
		metadata[key] = value
	}

	return Response{
		Message:        reply,
		ConversationID: conversationID,
		Suggestions:    defaultSuggestions,
		Metadata:       metadata,
	}, nil
}

// Conversations lists the user's conversations, newest first.
func (s *Service) Conversations(ctx context.Context, identity auth.Identity) ([]Conversation, error) {
	conversations, err := s.repository.ListConversations(ctx, identity.Subject)
	if err != nil {
		return nil, oops.In("chat_service").Wrapf(err, "listing conversations")
	}

	return conversations, nil
}

// Conversation loads one of the user's conversations with all its messages.
func (s *Service) Conversation(ctx context.Context, identity auth.Identity, conversationID string) (Conversation, error) {
	conversation, err := s.repository.LoadConversation(ctx, identity.Subject, conversationID)
	if err != nil {
		return Conversation{}, oops.In("chat_service").Wrapf(err, "loading a conversation")
	}

	return conversation, nil
}

func title(message string) string {
	if len(message) <= titleMaxLength {
		return message
	}

	return message[:titleMaxLength]
}
