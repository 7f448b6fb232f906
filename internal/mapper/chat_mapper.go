package mapper

import (
	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	e := &entity.ChatSession{
		Id:             s.Id,
		SessionId:      s.SessionId,
		Title:          s.Title,
		Authority:      s.Authority,
		UserId:         s.UserId,
		MessageCount:   s.MessageCount,
		LastActivityAt: s.LastActivityAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}

	if len(s.Messages) > 0 {
		e.Messages = make([]*entity.ChatMessage, len(s.Messages))
		for i := range s.Messages {
			e.Messages[i] = m.ChatMessageToEntity(&s.Messages[i])
		}
	}

	return e
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	return &model.ChatSession{
		Id:             s.Id,
		SessionId:      s.SessionId,
		Title:          s.Title,
		Authority:      s.Authority,
		UserId:         s.UserId,
		MessageCount:   s.MessageCount,
		LastActivityAt: s.LastActivityAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var metadata map[string]interface{}
	if msg.Metadata != nil {
		metadata = map[string]interface{}(msg.Metadata)
	}

	return &entity.ChatMessage{
		Id:            msg.Id,
		MessageId:     msg.MessageId,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		Category:      msg.Category,
		Authority:     msg.Authority,
		Metadata:      metadata,
		IsTyping:      msg.IsTyping,
		CreatedAt:     msg.CreatedAt,
		UpdatedAt:     msg.UpdatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var metadata datatypes.JSONMap
	if msg.Metadata != nil {
		metadata = datatypes.JSONMap(msg.Metadata)
	}

	return &model.ChatMessage{
		Id:            msg.Id,
		MessageId:     msg.MessageId,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		Category:      msg.Category,
		Authority:     msg.Authority,
		Metadata:      metadata,
		IsTyping:      msg.IsTyping,
		CreatedAt:     msg.CreatedAt,
		UpdatedAt:     msg.UpdatedAt,
	}
}
