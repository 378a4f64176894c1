// Package chatsql stores conversations and messages in Postgres.
package chatsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avencore/devops-agent/internal/chat"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) CreateConversation(ctx context.Context, conversation chat.Conversation) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO conversations (id, user_id, title, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5);`,
		conversation.ID, conversation.UserID, conversation.Title, conversation.CreatedAt, conversation.UpdatedAt,
	); err != nil {
		if err, ok := handlePgError(err); ok {
			return err
		}

		return fmt.Errorf("inserting into conversations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (r *Repository) LoadConversation(ctx context.Context, userID, conversationID string) (chat.Conversation, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var conversation chat.Conversation
	row := tx.QueryRow(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM conversations WHERE id = $1 AND user_id = $2;`,
		conversationID, userID)
	if err := row.Scan(&conversation.ID, &conversation.UserID, &conversation.Title,
		&conversation.CreatedAt, &conversation.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Conversation{}, serviceerr.ErrNotFound
		}

		return chat.Conversation{}, fmt.Errorf("scanning rows: %w", err)
	}

	messages, err := r.messages(ctx, tx, conversationID)
	if err != nil {
		return chat.Conversation{}, err
	}
	conversation.Messages = messages

	if err := tx.Commit(ctx); err != nil {
		return chat.Conversation{}, fmt.Errorf("committing tx: %w", err)
	}

	return conversation, nil
}

func (r *Repository) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, created_at, updated_at
			 FROM conversations WHERE user_id = $1 ORDER BY updated_at DESC;`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	conversations := []chat.Conversation{}
	for rows.Next() {
		var conversation chat.Conversation
		if err := rows.Scan(&conversation.ID, &conversation.UserID, &conversation.Title,
			&conversation.CreatedAt, &conversation.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning rows: %w", err)
		}

		conversations = append(conversations, conversation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return conversations, nil
}

func (r *Repository) AppendMessage(ctx context.Context, conversationID string, message chat.Message) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at)
			 VALUES ($1, $2, $3, $4, $5);`,
		message.ID, conversationID, message.Role, message.Content, message.Timestamp,
	); err != nil {
		if err, ok := handlePgError(err); ok {
			return err
		}

		return fmt.Errorf("inserting into messages: %w", err)
	}

	ct, err := tx.Exec(ctx,
		`UPDATE conversations SET updated_at = $1 WHERE id = $2;`,
		message.Timestamp, conversationID)
	if err != nil {
		return fmt.Errorf("updating conversations: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return serviceerr.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing tx: %w", err)
	}

	return nil
}

func (r *Repository) messages(ctx context.Context, tx pgx.Tx, conversationID string) ([]chat.Message, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, role, content, created_at FROM messages
			 WHERE conversation_id = $1 ORDER BY created_at ASC;`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := []chat.Message{}
	for rows.Next() {
		var message chat.Message
		if err := rows.Scan(&message.ID, &message.Role, &message.Content, &message.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning rows: %w", err)
		}

		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return messages, nil
}
