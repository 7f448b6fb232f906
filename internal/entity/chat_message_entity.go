package entity

import (
	"time"
)

type ChatMessage struct {
	Id            uint
	MessageId     string
	ChatSessionId uint
	Role          string
	Content       string
	Category      *string
	Authority     *string
	Metadata      map[string]interface{}
	IsTyping      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
