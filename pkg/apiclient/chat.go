package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type ChatRequest struct {
	Message        string            `json:"message"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Context        map[string]string `json:"context,omitempty"`
}

type ChatResponse struct {
	Message        string            `json:"message"`
	ConversationID string            `json:"conversation_id"`
	Suggestions    []string          `json:"suggestions,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     string        `json:"title,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Messages  []ChatMessage `json:"messages"`
}

func (c *Client) SendMessage(ctx context.Context, request ChatRequest) (ChatResponse, error) {
	var response ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat/message", nil, request, &response); err != nil {
		return ChatResponse{}, err
	}

	return response, nil
}

func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var conversations []Conversation
	if err := c.do(ctx, http.MethodGet, "/api/chat/conversations", nil, nil, &conversations); err != nil {
		return nil, err
	}

	return conversations, nil
}

func (c *Client) GetConversation(ctx context.Context, conversationID string) (Conversation, error) {
	var conversation Conversation
	path := "/api/chat/conversations/" + url.PathEscape(conversationID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &conversation); err != nil {
		return Conversation{}, err
	}

	return conversation, nil
}
