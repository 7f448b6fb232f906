package service

import (
	"context"
	"encoding/json"
	"time"

	"chat-relay-be/internal/constant"
	"chat-relay-be/internal/dto"
	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/pkg/logger"
	"chat-relay-be/internal/pkg/serverutils"
	"chat-relay-be/internal/repository/contract"
	"chat-relay-be/internal/repository/specification"
	"chat-relay-be/pkg/events"
	"chat-relay-be/pkg/predict"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const statsCacheTTL = 60 * time.Second

type IChatSessionService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionWithMessagesResponse, error)
	GetUserSessions(ctx context.Context, userId *string, limit int) (*dto.SessionListResponse, error)
	UpdateSession(ctx context.Context, sessionId string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, sessionId string) error
	SendMessage(ctx context.Context, sessionId string, req *dto.SendSessionMessageRequest) (*dto.SendMessageResponse, error)
	SearchSessions(ctx context.Context, query string, userId *string, limit int) (*dto.SessionListResponse, error)
	GetSessionStats(ctx context.Context, userId *string) (*dto.SessionStatsResponse, error)
}

// chatSessionService drives the send-message state machine: resolve session,
// persist the user message, dispatch to the bot, persist the reply.
type chatSessionService struct {
	repo       contract.ChatSessionRepository
	dispatcher ChatDispatcher
	publisher  message.Publisher
	rdb        *redis.Client
	logger     logger.ILogger
}

func NewChatSessionService(
	repo contract.ChatSessionRepository,
	dispatcher ChatDispatcher,
	publisher message.Publisher,
	rdb *redis.Client,
	log logger.ILogger,
) IChatSessionService {
	return &chatSessionService{
		repo:       repo,
		dispatcher: dispatcher,
		publisher:  publisher,
		rdb:        rdb,
		logger:     log,
	}
}

func (s *chatSessionService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	session := s.buildSession(req)
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return s.formatSession(session), nil
}

// buildSession fills defaults, with caller-supplied values winning.
func (s *chatSessionService) buildSession(req *dto.CreateSessionRequest) *entity.ChatSession {
	now := time.Now()
	session := &entity.ChatSession{
		SessionId:      uuid.NewString(),
		Title:          constant.DefaultSessionTitle,
		Authority:      constant.DefaultAuthority,
		MessageCount:   0,
		LastActivityAt: &now,
	}

	if req.SessionId != "" {
		session.SessionId = req.SessionId
	}
	if req.Title != "" {
		session.Title = req.Title
	}
	if constant.ValidAuthority(req.Authority) {
		session.Authority = req.Authority
	}

	// user_account.id wins over the flat user_id field.
	userId := req.UserId
	if req.UserAccount != nil && req.UserAccount.Id != "" {
		userId = req.UserAccount.Id
	}
	if userId != "" {
		session.UserId = &userId
	}

	return session
}

func (s *chatSessionService) GetSession(ctx context.Context, sessionId string) (*dto.SessionWithMessagesResponse, error) {
	session, err := s.repo.FindWithMessages(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("Session not found")
	}

	messages := make([]*dto.MessageResponse, len(session.Messages))
	for i, m := range session.Messages {
		messages[i] = s.formatMessage(m)
	}

	return &dto.SessionWithMessagesResponse{
		Id:             session.SessionId,
		Title:          session.Title,
		Authority:      session.Authority,
		MessageCount:   session.MessageCount,
		LastActivityAt: session.LastActivityAt,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
		Messages:       messages,
	}, nil
}

func (s *chatSessionService) GetUserSessions(ctx context.Context, userId *string, limit int) (*dto.SessionListResponse, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "last_activity_at", Desc: true},
		specification.Limit{Limit: limit},
	}
	if userId != nil {
		specs = append([]specification.Specification{specification.ByUserId{UserId: *userId}}, specs...)
	}

	sessions, err := s.repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	return s.formatSessionList(ctx, sessions, "")
}

func (s *chatSessionService) UpdateSession(ctx context.Context, sessionId string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.repo.FindBySessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("Session not found")
	}

	if req.Title != "" {
		session.Title = req.Title
	}
	if req.Authority != "" {
		session.Authority = req.Authority
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.formatSession(session), nil
}

func (s *chatSessionService) DeleteSession(ctx context.Context, sessionId string) error {
	deleted, err := s.repo.Delete(ctx, sessionId)
	if err != nil {
		return err
	}
	if !deleted {
		return serverutils.NewNotFoundError("Session not found")
	}
	return nil
}

// SendMessage walks the full exchange. The user message is persisted before
// the upstream call, so a dispatch failure still leaves it in history: the
// response then reports failure while carrying the stored user message.
func (s *chatSessionService) SendMessage(ctx context.Context, sessionId string, req *dto.SendSessionMessageRequest) (*dto.SendMessageResponse, error) {
	if len([]rune(req.Content)) > constant.MaxMessageLength {
		return nil, serverutils.NewValidationError("Message content exceeds maximum length")
	}

	// 1. Resolve the session, creating it on the fly for unknown ids.
	session, err := s.repo.FindBySessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		created := s.buildSession(&dto.CreateSessionRequest{
			SessionId: sessionId,
			Authority: req.Authority,
		})
		if err := s.repo.Create(ctx, created); err != nil {
			return nil, err
		}
		// Re-fetch to guard against create-then-read inconsistency.
		session, err = s.repo.FindBySessionId(ctx, sessionId)
		if err != nil {
			return nil, err
		}
	}

	authority := session.Authority
	if constant.ValidAuthority(req.Authority) {
		authority = req.Authority
	}

	var category *string
	if req.Category != "" {
		category = &req.Category
	}
	dispatchCategory := constant.DefaultCategory
	if req.Category != "" {
		dispatchCategory = req.Category
	}

	// 2. Persist the user message. This happens regardless of what follows.
	userMessage := &entity.ChatMessage{
		MessageId: req.MessageId,
		Role:      constant.ChatMessageRoleUser,
		Content:   req.Content,
		Category:  category,
		Authority: &authority,
		Metadata:  req.Metadata,
	}
	if userMessage.MessageId == "" {
		userMessage.MessageId = uuid.NewString()
	}
	if err := s.repo.AddMessage(ctx, session, userMessage); err != nil {
		return nil, err
	}

	// 3. First message of the session names it.
	if session.MessageCount == 1 {
		title := truncateTitle(req.Content, constant.SessionTitleLimit)
		if err := s.repo.UpdateTitle(ctx, sessionId, title); err != nil {
			return nil, err
		}
		session.Title = title
	}

	// 4. Dispatch to the bot.
	result := s.dispatcher.SendMessage(ctx, req.Content, authority, dispatchCategory)

	s.publishMessageSent(session, authority, result.Success)

	if !result.Success {
		return &dto.SendMessageResponse{
			Success:     false,
			Message:     "Failed to get bot response",
			SessionId:   sessionId,
			UserMessage: s.formatMessage(userMessage),
			Error:       result.Err,
		}, nil
	}

	// 5. Persist the assistant reply with the raw payload as metadata.
	assistantMessage := &entity.ChatMessage{
		MessageId: uuid.NewString(),
		Role:      constant.ChatMessageRoleAssistant,
		Content:   predict.ExtractMessage(result.Data),
		Category:  category,
		Authority: &authority,
		Metadata:  metadataFromResult(result),
	}
	if err := s.repo.AddMessage(ctx, session, assistantMessage); err != nil {
		return nil, err
	}

	return &dto.SendMessageResponse{
		Success:          true,
		Message:          "Message sent successfully",
		SessionId:        sessionId,
		UserMessage:      s.formatMessage(userMessage),
		AssistantMessage: s.formatMessage(assistantMessage),
	}, nil
}

func (s *chatSessionService) SearchSessions(ctx context.Context, query string, userId *string, limit int) (*dto.SessionListResponse, error) {
	sessions, err := s.repo.SearchSessions(ctx, query, userId, limit)
	if err != nil {
		return nil, err
	}
	return s.formatSessionList(ctx, sessions, query)
}

func (s *chatSessionService) GetSessionStats(ctx context.Context, userId *string) (*dto.SessionStatsResponse, error) {
	cacheKey := statsCacheKey(userId)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp dto.SessionStatsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	stats, err := s.repo.GetSessionStats(ctx, userId)
	if err != nil {
		return nil, err
	}
	if stats.ByAuthority == nil {
		stats.ByAuthority = map[string]int64{}
	}

	resp := &dto.SessionStatsResponse{
		TotalSessions:             stats.TotalSessions,
		TotalMessages:             stats.TotalMessages,
		ByAuthority:               stats.ByAuthority,
		AverageMessagesPerSession: stats.AverageMessagesPerSession,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("chat_session", "Failed to cache session stats", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return resp, nil
}

func statsCacheKey(userId *string) string {
	if userId != nil {
		return "chat:stats:user:" + *userId
	}
	return "chat:stats:all"
}

func (s *chatSessionService) publishMessageSent(session *entity.ChatSession, authority string, success bool) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(events.ChatMessageSent{
		SessionId: session.SessionId,
		UserId:    session.UserId,
		Authority: authority,
		Success:   success,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		return
	}

	if err := s.publisher.Publish(events.TopicChatMessageSent, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Warn("chat_session", "Failed to publish message event", map[string]interface{}{
			"session_id": session.SessionId,
			"error":      err.Error(),
		})
	}
}

func (s *chatSessionService) formatSessionList(ctx context.Context, sessions []*entity.ChatSession, query string) (*dto.SessionListResponse, error) {
	formatted := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		latest, err := s.repo.FindLatestMessage(ctx, session.Id)
		if err != nil {
			return nil, err
		}
		session.LatestMessage = latest
		formatted[i] = s.formatSession(session)
	}

	return &dto.SessionListResponse{
		Sessions: formatted,
		Count:    len(formatted),
		Query:    query,
	}, nil
}

func (s *chatSessionService) formatSession(session *entity.ChatSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		Id:             session.SessionId,
		Title:          session.Title,
		Authority:      session.Authority,
		MessageCount:   session.MessageCount,
		LastActivityAt: session.LastActivityAt,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}
	if session.LatestMessage != nil {
		resp.LatestMessage = s.formatMessage(session.LatestMessage)
	}
	return resp
}

func (s *chatSessionService) formatMessage(m *entity.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        m.MessageId,
		Role:      m.Role,
		Content:   m.Content,
		Category:  m.Category,
		Authority: m.Authority,
		Metadata:  m.Metadata,
		IsTyping:  m.IsTyping,
		Timestamp: m.CreatedAt,
	}
}

// metadataFromResult stores the raw upstream payload on the assistant
// message. Non-object payloads are wrapped so they still fit the JSON column.
func metadataFromResult(result *predict.Result) map[string]interface{} {
	if m, ok := result.Data.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{"response": result.Data}
}

func truncateTitle(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
