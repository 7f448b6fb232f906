package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"chat-relay-be/internal/constant"
	"chat-relay-be/internal/dto"
	"chat-relay-be/internal/model"
	"chat-relay-be/internal/pkg/logger"
	"chat-relay-be/internal/pkg/serverutils"
	"chat-relay-be/internal/repository/contract"
	"chat-relay-be/internal/repository/implementation"
	"chat-relay-be/pkg/events"
	"chat-relay-be/pkg/predict"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubChatDispatcher answers every send with a canned result and records the
// calls it saw.
type stubChatDispatcher struct {
	result *predict.Result
	calls  []string
}

func (d *stubChatDispatcher) SendMessage(ctx context.Context, prompt, otoritas, kategori string) *predict.Result {
	d.calls = append(d.calls, fmt.Sprintf("%s|%s|%s", prompt, otoritas, kategori))
	return d.result
}

func (d *stubChatDispatcher) TestConnection(ctx context.Context) *predict.Result {
	return d.result
}

func botReply(text string) *predict.Result {
	return &predict.Result{
		Success:    true,
		StatusCode: 200,
		Data:       map[string]interface{}{"response": text},
	}
}

func botFailure(errText string) *predict.Result {
	return &predict.Result{
		Success: false,
		Kind:    predict.FailureRejected,
		Err:     errText,
	}
}

func newSessionTestRepo(t *testing.T) contract.ChatSessionRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.ChatSession{}, &model.ChatMessage{}))
	return implementation.NewChatSessionRepository(db)
}

func newSessionService(t *testing.T, dispatcher ChatDispatcher) IChatSessionService {
	t.Helper()
	return NewChatSessionService(newSessionTestRepo(t), dispatcher, nil, nil, logger.NewNopLogger())
}

func TestCreateSessionDefaults(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botReply("ok")})

	res, err := svc.CreateSession(context.Background(), &dto.CreateSessionRequest{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Id)
	assert.Equal(t, constant.DefaultSessionTitle, res.Title)
	assert.Equal(t, constant.DefaultAuthority, res.Authority)
	assert.Zero(t, res.MessageCount)
}

func TestCreateSessionUserAccountWins(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botReply("ok")})
	ctx := context.Background()

	res, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{
		UserId:      "flat-id",
		UserAccount: &dto.UserAccountDTO{Id: "account-id"},
	})
	require.NoError(t, err)

	list, err := svc.GetUserSessions(ctx, strPtr("account-id"), 20)
	require.NoError(t, err)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, res.Id, list.Sessions[0].Id)

	other, err := svc.GetUserSessions(ctx, strPtr("flat-id"), 20)
	require.NoError(t, err)
	assert.Empty(t, other.Sessions)
}

func TestSendMessageCleanExchanges(t *testing.T) {
	dispatcher := &stubChatDispatcher{result: botReply("jawaban bot")}
	svc := newSessionService(t, dispatcher)
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	const rounds = 3
	for i := 0; i < rounds; i++ {
		res, err := svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{
			Content: fmt.Sprintf("pertanyaan %d", i),
		})
		require.NoError(t, err)
		assert.True(t, res.Success)
		require.NotNil(t, res.AssistantMessage)
		assert.Equal(t, "jawaban bot", res.AssistantMessage.Content)
	}

	session, err := svc.GetSession(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, 2*rounds, session.MessageCount)
	require.Len(t, session.Messages, 2*rounds)
	assert.Equal(t, constant.ChatMessageRoleUser, session.Messages[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, session.Messages[1].Role)
	assert.Len(t, dispatcher.calls, rounds)
}

func TestSendMessageUpstreamFailureKeepsUserMessage(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botFailure("request failed with status: 502")})
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	res, err := svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{Content: "halo"})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "Failed to get bot response", res.Message)
	assert.Equal(t, "request failed with status: 502", res.Error)
	require.NotNil(t, res.UserMessage)
	assert.Equal(t, "halo", res.UserMessage.Content)
	assert.Nil(t, res.AssistantMessage)

	session, err := svc.GetSession(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, session.MessageCount)
}

func TestSendMessageAutoCreatesSession(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botReply("ok")})
	ctx := context.Background()

	sessionId := uuid.NewString()
	res, err := svc.SendMessage(ctx, sessionId, &dto.SendSessionMessageRequest{
		Content:   "sesi baru",
		Authority: "HUKUM",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, sessionId, res.SessionId)

	session, err := svc.GetSession(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, "HUKUM", session.Authority)
	assert.Equal(t, 2, session.MessageCount)
}

func TestFirstMessageNamesSession(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botReply("ok")})
	ctx := context.Background()

	t.Run("short content used verbatim", func(t *testing.T) {
		created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
		require.NoError(t, err)

		_, err = svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{Content: "judul pendek"})
		require.NoError(t, err)

		session, err := svc.GetSession(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, "judul pendek", session.Title)
	})

	t.Run("long content truncated with ellipsis", func(t *testing.T) {
		created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
		require.NoError(t, err)

		long := strings.Repeat("x", 80)
		_, err = svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{Content: long})
		require.NoError(t, err)

		session, err := svc.GetSession(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("x", constant.SessionTitleLimit)+"...", session.Title)
	})

	t.Run("second message leaves the title alone", func(t *testing.T) {
		created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
		require.NoError(t, err)

		_, err = svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{Content: "pertama"})
		require.NoError(t, err)
		_, err = svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{Content: "kedua"})
		require.NoError(t, err)

		session, err := svc.GetSession(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, "pertama", session.Title)
	})
}

func TestGetSessionNotFound(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botReply("ok")})

	_, err := svc.GetSession(context.Background(), "missing")
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestDeleteSession(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botReply("ok")})
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, created.Id))

	err = svc.DeleteSession(ctx, created.Id)
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestSearchSessionsThroughService(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botReply("ok")})
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{Content: "prosedur reimburse perjalanan dinas"})
	require.NoError(t, err)

	res, err := svc.SearchSessions(ctx, "reimburse", nil, 20)
	require.NoError(t, err)
	assert.Equal(t, "reimburse", res.Query)
	require.Len(t, res.Sessions, 1)
	require.NotNil(t, res.Sessions[0].LatestMessage)
}

func TestGetSessionStatsWithoutRedis(t *testing.T) {
	svc := newSessionService(t, &stubChatDispatcher{result: botReply("ok")})
	ctx := context.Background()

	res, err := svc.GetSessionStats(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, res.TotalSessions)
	assert.Zero(t, res.AverageMessagesPerSession)
	assert.NotNil(t, res.ByAuthority)

	created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{Content: "satu"})
	require.NoError(t, err)

	res, err = svc.GetSessionStats(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.TotalSessions)
	assert.EqualValues(t, 2, res.TotalMessages)
	assert.Equal(t, 2.0, res.AverageMessagesPerSession)
}

func TestSendMessagePublishesEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewChatSessionService(newSessionTestRepo(t), &stubChatDispatcher{result: botReply("ok")}, pubSub, nil, logger.NewNopLogger())

	ctx := context.Background()
	messages, err := pubSub.Subscribe(ctx, events.TopicChatMessageSent)
	require.NoError(t, err)

	created, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, created.Id, &dto.SendSessionMessageRequest{Content: "halo"})
	require.NoError(t, err)

	select {
	case msg := <-messages:
		var evt events.ChatMessageSent
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		assert.Equal(t, created.Id, evt.SessionId)
		assert.True(t, evt.Success)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("expected a chat.message.sent event")
	}
}

func strPtr(s string) *string {
	return &s
}
