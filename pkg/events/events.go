// Package events defines the in-process domain events published on the
// watermill bus after chat sends and file uploads.
package events

import (
	"time"
)

const (
	TopicChatMessageSent = "chat.message.sent"
	TopicFileUploaded    = "file.uploaded"
)

type ChatMessageSent struct {
	SessionId string    `json:"session_id"`
	UserId    *string   `json:"user_id,omitempty"`
	Authority string    `json:"authority"`
	Success   bool      `json:"success"`
	SentAt    time.Time `json:"sent_at"`
}

type FileUploaded struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	Authority  string    `json:"authority"`
	Category   string    `json:"category"`
	UploadedAt time.Time `json:"uploaded_at"`
}
