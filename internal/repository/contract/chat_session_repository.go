package contract

import (
	"context"

	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/repository/specification"
)

// ChatSessionRepository is the session store adapter. Find* methods return
// (nil, nil) when nothing matches.
type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	UpdateTitle(ctx context.Context, sessionId, title string) error
	// Delete removes the session and, by cascade, its messages. Returns
	// false when the session does not exist.
	Delete(ctx context.Context, sessionId string) (bool, error)

	FindBySessionId(ctx context.Context, sessionId string) (*entity.ChatSession, error)
	// FindWithMessages loads the session with its messages in conversation
	// order (created_at ascending).
	FindWithMessages(ctx context.Context, sessionId string) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	FindLatestMessage(ctx context.Context, chatSessionId uint) (*entity.ChatMessage, error)

	// AddMessage inserts the message and bumps the parent session's
	// message_count and last_activity_at in the same transaction. The
	// increment happens store-side so concurrent senders never lose an
	// update. On return session.MessageCount holds the post-increment value.
	AddMessage(ctx context.Context, session *entity.ChatSession, message *entity.ChatMessage) error
	// DeleteMessage removes the message and decrements the parent counter.
	// Returns false when the message does not exist.
	DeleteMessage(ctx context.Context, messageId string) (bool, error)

	// SearchSessions matches sessions whose title contains the query or that
	// own at least one message whose content contains it, case-insensitively.
	SearchSessions(ctx context.Context, query string, userId *string, limit int) ([]*entity.ChatSession, error)
	GetSessionStats(ctx context.Context, userId *string) (*entity.SessionStats, error)
}
