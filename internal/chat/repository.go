package chat

import "context"

// Repository persists conversations and their messages. Implementations
// return serviceerr.ErrNotFound for unknown or foreign conversations.
type Repository interface {
	CreateConversation(ctx context.Context, conversation Conversation) error
	LoadConversation(ctx context.Context, userID, conversationID string) (Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	AppendMessage(ctx context.Context, conversationID string, message Message) error
}
