package model

import (
	"time"
)

type ChatSession struct {
	Id             uint    `gorm:"primaryKey;autoIncrement"`
	SessionId      string  `gorm:"type:varchar(255);uniqueIndex;not null"` // Frontend-supplied token
	Title          string  `gorm:"type:varchar(255);not null;default:'New Chat'"`
	Authority      string  `gorm:"type:varchar(20);not null;default:'SDM'"`
	UserId         *string `gorm:"type:varchar(255);index"`
	MessageCount   int     `gorm:"not null;default:0"`
	LastActivityAt *time.Time `gorm:"index"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`

	Messages []ChatMessage `gorm:"foreignKey:ChatSessionId;constraint:OnDelete:CASCADE"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
