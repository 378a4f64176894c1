package chatmock

import (
	"context"
	"sort"

	"github.com/avencore/devops-agent/internal/chat"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

type Repository struct {
	Conversations map[string]chat.Conversation

	createErr, loadErr, listErr, appendErr error
}

func NewInMemRepository(createErr, loadErr, listErr, appendErr error) *Repository {
	return &Repository{
		Conversations: make(map[string]chat.Conversation),
		createErr:     createErr,
		loadErr:       loadErr,
		listErr:       listErr,
		appendErr:     appendErr,
	}
}

func (r *Repository) CreateConversation(ctx context.Context, conversation chat.Conversation) error {
	if r.createErr != nil {
		return r.createErr
	}

	if _, ok := r.Conversations[conversation.ID]; ok {
		return serviceerr.ErrConflict
	}

	r.Conversations[conversation.ID] = conversation

	return nil
}

func (r *Repository) LoadConversation(ctx context.Context, userID, conversationID string) (chat.Conversation, error) {
	if r.loadErr != nil {
		return chat.Conversation{}, r.loadErr
	}

	conversation, ok := r.Conversations[conversationID]
	if !ok || conversation.UserID != userID {
		return chat.Conversation{}, serviceerr.ErrNotFound
	}

	return conversation, nil
}

func (r *Repository) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	conversations := []chat.Conversation{}
	for _, conversation := range r.Conversations {
		if conversation.UserID == userID {
			conversations = append(conversations, conversation)
		}
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return conversations, nil
}

func (r *Repository) AppendMessage(ctx context.Context, conversationID string, message chat.Message) error {
	if r.appendErr != nil {
		return r.appendErr
	}

	conversation, ok := r.Conversations[conversationID]
	if !ok {
		return serviceerr.ErrNotFound
	}

	conversation.Messages = append(conversation.Messages, message)
	conversation.UpdatedAt = message.Timestamp
	r.Conversations[conversationID] = conversation

	return nil
}
