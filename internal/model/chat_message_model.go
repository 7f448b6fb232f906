package model

import (
	"time"

	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id            uint    `gorm:"primaryKey;autoIncrement"`
	MessageId     string  `gorm:"type:varchar(255);uniqueIndex;not null"` // Frontend-supplied token
	ChatSessionId uint    `gorm:"not null;index"`
	Role          string  `gorm:"type:varchar(20);not null;index"`
	Content       string  `gorm:"type:text;not null"`
	Category      *string `gorm:"type:varchar(100)"`
	Authority     *string `gorm:"type:varchar(20)"`
	Metadata      datatypes.JSONMap `gorm:"type:json"` // Raw external API payload
	IsTyping      bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
