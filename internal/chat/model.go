// Package chat handles the AI assistant conversation flow. Conversations and
// their messages are persisted per user; the assistant reply itself is a
// placeholder until the agent pipeline lands.
package chat

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

type Request struct {
	Message        string            `json:"message"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Context        map[string]string `json:"context,omitempty"`
}

type Response struct {
	Message        string            `json:"message"`
	ConversationID string            `json:"conversation_id"`
	Suggestions    []string          `json:"suggestions,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}
