package service

import (
	"context"
	"encoding/json"

	"chat-relay-be/internal/pkg/logger"
	"chat-relay-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process event topics. Chat events
// invalidate the cached session stats so the next read recomputes them.
type consumerService struct {
	subscriber message.Subscriber
	rdb        *redis.Client
	logger     logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, rdb *redis.Client, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		rdb:        rdb,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	chatMessages, err := cs.subscriber.Subscribe(ctx, events.TopicChatMessageSent)
	if err != nil {
		return err
	}

	fileMessages, err := cs.subscriber.Subscribe(ctx, events.TopicFileUploaded)
	if err != nil {
		return err
	}

	go func() {
		for msg := range chatMessages {
			cs.processChatMessage(ctx, msg)
		}
	}()

	go func() {
		for msg := range fileMessages {
			cs.processFileUploaded(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processChatMessage(ctx context.Context, msg *message.Message) {
	var payload events.ChatMessageSent
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal chat event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payload, retrying cannot help
		return
	}

	cs.logger.Info("consumer", "Chat message processed", map[string]interface{}{
		"session_id": payload.SessionId,
		"authority":  payload.Authority,
		"success":    payload.Success,
	})

	cs.invalidateStats(ctx, payload.UserId)
	msg.Ack()
}

func (cs *consumerService) processFileUploaded(msg *message.Message) {
	var payload events.FileUploaded
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "Failed to unmarshal upload event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	cs.logger.Info("consumer", "File uploaded", map[string]interface{}{
		"filename":  payload.Filename,
		"size":      payload.Size,
		"authority": payload.Authority,
		"category":  payload.Category,
	})
	msg.Ack()
}

func (cs *consumerService) invalidateStats(ctx context.Context, userId *string) {
	if cs.rdb == nil {
		return
	}

	keys := []string{statsCacheKey(nil)}
	if userId != nil {
		keys = append(keys, statsCacheKey(userId))
	}

	if err := cs.rdb.Del(ctx, keys...).Err(); err != nil {
		cs.logger.Warn("consumer", "Failed to invalidate stats cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
