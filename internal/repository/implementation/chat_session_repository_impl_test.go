package implementation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"chat-relay-be/internal/constant"
	"chat-relay-be/internal/entity"
	"chat-relay-be/internal/model"
	"chat-relay-be/internal/repository/contract"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test. A single
// connection keeps sqlite from returning busy errors under parallel writers.
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func newSessionRepo(t *testing.T) contract.ChatSessionRepository {
	t.Helper()
	return NewChatSessionRepository(newTestDB(t))
}

func createSession(t *testing.T, repo contract.ChatSessionRepository, userId *string) *entity.ChatSession {
	t.Helper()
	session := &entity.ChatSession{
		SessionId: uuid.NewString(),
		Title:     constant.DefaultSessionTitle,
		Authority: constant.DefaultAuthority,
		UserId:    userId,
	}
	require.NoError(t, repo.Create(context.Background(), session))
	return session
}

func userMessage(content string) *entity.ChatMessage {
	return &entity.ChatMessage{
		MessageId: uuid.NewString(),
		Role:      constant.ChatMessageRoleUser,
		Content:   content,
	}
}

func TestCreateAndFindBySessionId(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	created := createSession(t, repo, nil)
	assert.NotZero(t, created.Id)

	found, err := repo.FindBySessionId(ctx, created.SessionId)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, constant.DefaultSessionTitle, found.Title)
	assert.Equal(t, constant.DefaultAuthority, found.Authority)
	assert.Equal(t, 0, found.MessageCount)
}

func TestFindBySessionIdMissingReturnsNil(t *testing.T) {
	repo := newSessionRepo(t)

	found, err := repo.FindBySessionId(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestAddMessageIncrementsCount(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	session := createSession(t, repo, nil)

	first := userMessage("pertanyaan pertama")
	require.NoError(t, repo.AddMessage(ctx, session, first))

	assert.Equal(t, 1, session.MessageCount)
	assert.NotZero(t, first.Id)
	assert.NotNil(t, session.LastActivityAt)

	require.NoError(t, repo.AddMessage(ctx, session, userMessage("kedua")))
	assert.Equal(t, 2, session.MessageCount)

	found, err := repo.FindBySessionId(ctx, session.SessionId)
	require.NoError(t, err)
	assert.Equal(t, 2, found.MessageCount)
}

func TestAddMessageConcurrentWritersLoseNothing(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	session := createSession(t, repo, nil)

	const writers = 8
	const perWriter = 5

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				// Each goroutine works on its own copy; only the store is shared.
				local := &entity.ChatSession{Id: session.Id, SessionId: session.SessionId}
				if err := repo.AddMessage(ctx, local, userMessage("pesan")); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("AddMessage failed: %v", err)
	}

	found, err := repo.FindBySessionId(ctx, session.SessionId)
	require.NoError(t, err)
	assert.Equal(t, writers*perWriter, found.MessageCount)
}

func TestFindWithMessagesOrdersByCreation(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	session := createSession(t, repo, nil)
	require.NoError(t, repo.AddMessage(ctx, session, userMessage("satu")))
	require.NoError(t, repo.AddMessage(ctx, session, userMessage("dua")))
	require.NoError(t, repo.AddMessage(ctx, session, userMessage("tiga")))

	found, err := repo.FindWithMessages(ctx, session.SessionId)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Messages, 3)
	assert.Equal(t, "satu", found.Messages[0].Content)
	assert.Equal(t, "tiga", found.Messages[2].Content)
}

func TestDeleteSessionCascadesMessages(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatSessionRepository(db)
	ctx := context.Background()

	session := createSession(t, repo, nil)
	require.NoError(t, repo.AddMessage(ctx, session, userMessage("akan hilang")))

	deleted, err := repo.Delete(ctx, session.SessionId)
	require.NoError(t, err)
	assert.True(t, deleted)

	var messageCount int64
	require.NoError(t, db.Model(&model.ChatMessage{}).Where("chat_session_id = ?", session.Id).Count(&messageCount).Error)
	assert.Zero(t, messageCount)

	found, err := repo.FindBySessionId(ctx, session.SessionId)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDeleteMissingSessionReturnsFalse(t *testing.T) {
	repo := newSessionRepo(t)

	deleted, err := repo.Delete(context.Background(), "no-such-session")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteMessageDecrementsCount(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	session := createSession(t, repo, nil)
	msg := userMessage("hapus saya")
	require.NoError(t, repo.AddMessage(ctx, session, msg))
	require.NoError(t, repo.AddMessage(ctx, session, userMessage("tetap")))

	deleted, err := repo.DeleteMessage(ctx, msg.MessageId)
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := repo.FindBySessionId(ctx, session.SessionId)
	require.NoError(t, err)
	assert.Equal(t, 1, found.MessageCount)

	deleted, err = repo.DeleteMessage(ctx, "no-such-message")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUpdateTitle(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	session := createSession(t, repo, nil)
	require.NoError(t, repo.UpdateTitle(ctx, session.SessionId, "Prosedur cuti tahunan"))

	found, err := repo.FindBySessionId(ctx, session.SessionId)
	require.NoError(t, err)
	assert.Equal(t, "Prosedur cuti tahunan", found.Title)
}

func TestSearchSessionsMatchesTitleAndContent(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	byTitle := createSession(t, repo, nil)
	require.NoError(t, repo.UpdateTitle(ctx, byTitle.SessionId, "Panduan Lembur"))

	byContent := createSession(t, repo, nil)
	require.NoError(t, repo.AddMessage(ctx, byContent, userMessage("Bagaimana aturan LEMBUR di akhir pekan?")))

	unrelated := createSession(t, repo, nil)
	require.NoError(t, repo.AddMessage(ctx, unrelated, userMessage("topik lain")))

	results, err := repo.SearchSessions(ctx, "lembur", nil, 20)
	require.NoError(t, err)
	require.Len(t, results, 2)

	ids := []string{results[0].SessionId, results[1].SessionId}
	assert.Contains(t, ids, byTitle.SessionId)
	assert.Contains(t, ids, byContent.SessionId)
}

func TestSearchSessionsFiltersByUser(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	alice := "user-alice"
	bob := "user-bob"

	mine := createSession(t, repo, &alice)
	require.NoError(t, repo.UpdateTitle(ctx, mine.SessionId, "laporan bulanan"))

	theirs := createSession(t, repo, &bob)
	require.NoError(t, repo.UpdateTitle(ctx, theirs.SessionId, "laporan tahunan"))

	results, err := repo.SearchSessions(ctx, "laporan", &alice, 20)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, mine.SessionId, results[0].SessionId)
}

func TestGetSessionStats(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	first := createSession(t, repo, nil)
	require.NoError(t, repo.AddMessage(ctx, first, userMessage("a")))
	require.NoError(t, repo.AddMessage(ctx, first, userMessage("b")))
	require.NoError(t, repo.AddMessage(ctx, first, userMessage("c")))

	second := &entity.ChatSession{
		SessionId: uuid.NewString(),
		Title:     constant.DefaultSessionTitle,
		Authority: "HUKUM",
	}
	require.NoError(t, repo.Create(ctx, second))

	stats, err := repo.GetSessionStats(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalSessions)
	assert.EqualValues(t, 3, stats.TotalMessages)
	assert.EqualValues(t, 1, stats.ByAuthority["SDM"])
	assert.EqualValues(t, 1, stats.ByAuthority["HUKUM"])
	assert.Equal(t, 1.5, stats.AverageMessagesPerSession)
}

func TestGetSessionStatsEmptyStore(t *testing.T) {
	repo := newSessionRepo(t)

	stats, err := repo.GetSessionStats(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSessions)
	assert.Zero(t, stats.TotalMessages)
	assert.Zero(t, stats.AverageMessagesPerSession)
	assert.Empty(t, stats.ByAuthority)
}

func TestGetSessionStatsScopedToUser(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	alice := "user-alice"
	mine := createSession(t, repo, &alice)
	require.NoError(t, repo.AddMessage(ctx, mine, userMessage("halo")))

	other := createSession(t, repo, nil)
	require.NoError(t, repo.AddMessage(ctx, other, userMessage("lain")))
	require.NoError(t, repo.AddMessage(ctx, other, userMessage("lagi")))

	stats, err := repo.GetSessionStats(ctx, &alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalSessions)
	assert.EqualValues(t, 1, stats.TotalMessages)
	assert.Equal(t, 1.0, stats.AverageMessagesPerSession)
}

func TestFindLatestMessage(t *testing.T) {
	repo := newSessionRepo(t)
	ctx := context.Background()

	session := createSession(t, repo, nil)

	latest, err := repo.FindLatestMessage(ctx, session.Id)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, repo.AddMessage(ctx, session, userMessage("awal")))
	require.NoError(t, repo.AddMessage(ctx, session, userMessage("terbaru")))

	latest, err = repo.FindLatestMessage(ctx, session.Id)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "terbaru", latest.Content)
}
