package entity

import (
	"time"
)

type ChatSession struct {
	Id             uint
	SessionId      string
	Title          string
	Authority      string
	UserId         *string
	MessageCount   int
	LastActivityAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Messages is populated by FindWithMessages, ordered by creation time.
	Messages []*ChatMessage
	// LatestMessage is a list/search preview, nil when the session is empty.
	LatestMessage *ChatMessage
}

// SessionStats is the aggregate returned by GetSessionStats.
type SessionStats struct {
	TotalSessions             int64
	TotalMessages             int64
	ByAuthority               map[string]int64
	AverageMessagesPerSession float64
}
