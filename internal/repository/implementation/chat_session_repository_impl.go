package implementation

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/mapper"
	"chat-relay-be/internal/model"
	"chat-relay-be/internal/repository/contract"
	"chat-relay-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.ChatSessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ChatSessionToEntity(m)
	return nil
}

func (r *ChatSessionRepositoryImpl) Update(ctx context.Context, session *entity.ChatSession) error {
	m := r.mapper.ChatSessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ChatSessionToEntity(m)
	return nil
}

func (r *ChatSessionRepositoryImpl) UpdateTitle(ctx context.Context, sessionId, title string) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("session_id = ?", sessionId).
		Update("title", title).Error
}

func (r *ChatSessionRepositoryImpl) Delete(ctx context.Context, sessionId string) (bool, error) {
	var m model.ChatSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	// Messages are removed explicitly so the cascade holds even on stores
	// that do not enforce the FK constraint.
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_session_id = ?", m.Id).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatSession{}, m.Id).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ChatSessionRepositoryImpl) FindBySessionId(ctx context.Context, sessionId string) (*entity.ChatSession, error) {
	var m model.ChatSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatSessionToEntity(&m), nil
}

func (r *ChatSessionRepositoryImpl) FindWithMessages(ctx context.Context, sessionId string) (*entity.ChatSession, error) {
	var m model.ChatSession
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("session_id = ?", sessionId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatSessionToEntity(&m), nil
}

func (r *ChatSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var models []*model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.ChatSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatSessionToEntity(m)
	}
	return entities, nil
}

func (r *ChatSessionRepositoryImpl) FindLatestMessage(ctx context.Context, chatSessionId uint) (*entity.ChatMessage, error) {
	var m model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_session_id = ?", chatSessionId).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatMessageToEntity(&m), nil
}

func (r *ChatSessionRepositoryImpl) AddMessage(ctx context.Context, session *entity.ChatSession, message *entity.ChatMessage) error {
	message.ChatSessionId = session.Id
	m := r.mapper.ChatMessageToModel(message)
	now := time.Now()

	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		// Store-side increment, never read-modify-write.
		err := tx.Model(&model.ChatSession{}).
			Where("id = ?", session.Id).
			UpdateColumns(map[string]interface{}{
				"message_count":    gorm.Expr("message_count + ?", 1),
				"last_activity_at": now,
			}).Error
		if err != nil {
			return err
		}

		return tx.Raw("SELECT message_count FROM chat_sessions WHERE id = ?", session.Id).Scan(&count).Error
	})
	if err != nil {
		return err
	}

	*message = *r.mapper.ChatMessageToEntity(m)
	session.MessageCount = count
	session.LastActivityAt = &now
	return nil
}

func (r *ChatSessionRepositoryImpl) DeleteMessage(ctx context.Context, messageId string) (bool, error) {
	var m model.ChatMessage
	err := r.db.WithContext(ctx).Where("message_id = ?", messageId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ChatMessage{}, m.Id).Error; err != nil {
			return err
		}
		return tx.Model(&model.ChatSession{}).
			Where("id = ?", m.ChatSessionId).
			UpdateColumn("message_count", gorm.Expr("message_count - ?", 1)).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ChatSessionRepositoryImpl) SearchSessions(ctx context.Context, query string, userId *string, limit int) ([]*entity.ChatSession, error) {
	like := "%" + strings.ToLower(query) + "%"

	matchingMessages := r.db.Model(&model.ChatMessage{}).
		Select("chat_session_id").
		Where("LOWER(content) LIKE ?", like)

	q := r.db.WithContext(ctx).Model(&model.ChatSession{}).
		Where("LOWER(title) LIKE ? OR id IN (?)", like, matchingMessages)

	if userId != nil {
		q = q.Where("user_id = ?", *userId)
	}

	var models []*model.ChatSession
	err := q.Order("last_activity_at DESC").Limit(limit).Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.ChatSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatSessionToEntity(m)
	}
	return entities, nil
}

func (r *ChatSessionRepositoryImpl) GetSessionStats(ctx context.Context, userId *string) (*entity.SessionStats, error) {
	sessions := r.db.WithContext(ctx).Model(&model.ChatSession{})
	if userId != nil {
		sessions = sessions.Where("user_id = ?", *userId)
	}

	var totalSessions int64
	if err := sessions.Count(&totalSessions).Error; err != nil {
		return nil, err
	}

	messages := r.db.WithContext(ctx).Model(&model.ChatMessage{})
	if userId != nil {
		messages = messages.
			Joins("JOIN chat_sessions ON chat_sessions.id = chat_messages.chat_session_id").
			Where("chat_sessions.user_id = ?", *userId)
	}

	var totalMessages int64
	if err := messages.Count(&totalMessages).Error; err != nil {
		return nil, err
	}

	type authorityCount struct {
		Authority string
		Count     int64
	}
	var rows []authorityCount
	byAuthority := r.db.WithContext(ctx).Model(&model.ChatSession{}).
		Select("authority, count(*) as count").
		Group("authority")
	if userId != nil {
		byAuthority = byAuthority.Where("user_id = ?", *userId)
	}
	if err := byAuthority.Scan(&rows).Error; err != nil {
		return nil, err
	}

	breakdown := make(map[string]int64, len(rows))
	for _, row := range rows {
		breakdown[row.Authority] = row.Count
	}

	var average float64
	if totalSessions > 0 {
		average = math.Round(float64(totalMessages)/float64(totalSessions)*100) / 100
	}

	return &entity.SessionStats{
		TotalSessions:             totalSessions,
		TotalMessages:             totalMessages,
		ByAuthority:               breakdown,
		AverageMessagesPerSession: average,
	}, nil
}
