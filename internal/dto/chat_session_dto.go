package dto

import (
	"time"
)

type UserAccountDTO struct {
	Id         string   `json:"id,omitempty" validate:"omitempty,max=255"`
	Username   string   `json:"username,omitempty" validate:"omitempty,max=255"`
	Name       string   `json:"name,omitempty" validate:"omitempty,max=255"`
	Email      string   `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Authority  string   `json:"authority,omitempty" validate:"omitempty,oneof=ALL SDM HUKUM ADMIN"`
	Roles      []string `json:"roles,omitempty"`
	EmployeeId string   `json:"employee_id,omitempty" validate:"omitempty,max=255"`
	Department string   `json:"department,omitempty" validate:"omitempty,max=255"`
}

type CreateSessionRequest struct {
	SessionId   string          `json:"session_id,omitempty" validate:"omitempty,max=255"`
	Title       string          `json:"title,omitempty" validate:"omitempty,max=255"`
	Authority   string          `json:"authority,omitempty" validate:"omitempty,oneof=ALL SDM HUKUM ADMIN"`
	UserId      string          `json:"user_id,omitempty" validate:"omitempty,max=255"`
	UserAccount *UserAccountDTO `json:"user_account,omitempty"`
}

type UpdateSessionRequest struct {
	Title     string `json:"title,omitempty" validate:"omitempty,max=255"`
	Authority string `json:"authority,omitempty" validate:"omitempty,oneof=ALL SDM HUKUM ADMIN"`
}

type SendSessionMessageRequest struct {
	Content   string                 `json:"content" validate:"required,max=5000"`
	Category  string                 `json:"category,omitempty" validate:"omitempty,max=100"`
	Authority string                 `json:"authority,omitempty" validate:"omitempty,oneof=ALL SDM HUKUM ADMIN"`
	MessageId string                 `json:"message_id,omitempty" validate:"omitempty,max=255"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type MessageResponse struct {
	Id        string                 `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Category  *string                `json:"category"`
	Authority *string                `json:"authority"`
	Metadata  map[string]interface{} `json:"metadata"`
	IsTyping  bool                   `json:"is_typing"`
	Timestamp time.Time              `json:"timestamp"`
}

type SessionResponse struct {
	Id             string           `json:"id"`
	Title          string           `json:"title"`
	Authority      string           `json:"authority"`
	MessageCount   int              `json:"message_count"`
	LastActivityAt *time.Time       `json:"last_activity_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	LatestMessage  *MessageResponse `json:"latest_message,omitempty"`
}

type SessionWithMessagesResponse struct {
	Id             string             `json:"id"`
	Title          string             `json:"title"`
	Authority      string             `json:"authority"`
	MessageCount   int                `json:"message_count"`
	LastActivityAt *time.Time         `json:"last_activity_at"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Messages       []*MessageResponse `json:"messages"`
}

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Count    int                `json:"count"`
	Query    string             `json:"query,omitempty"`
}

// SendMessageResponse carries partial-success semantics: when the upstream
// dispatch fails after the user message was already persisted, Success is
// false but UserMessage is still populated. Callers must treat Success as
// the authoritative outcome flag.
type SendMessageResponse struct {
	Success          bool             `json:"success"`
	Message          string           `json:"message"`
	SessionId        string           `json:"session_id"`
	UserMessage      *MessageResponse `json:"user_message,omitempty"`
	AssistantMessage *MessageResponse `json:"assistant_message,omitempty"`
	Error            string           `json:"error,omitempty"`
}

type SessionStatsResponse struct {
	TotalSessions             int64            `json:"total_sessions"`
	TotalMessages             int64            `json:"total_messages"`
	ByAuthority               map[string]int64 `json:"by_authority"`
	AverageMessagesPerSession float64          `json:"average_messages_per_session"`
}
