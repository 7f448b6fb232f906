package bootstrap

import (
	"context"
	"log"
	"time"

	"chat-relay-be/internal/config"
	"chat-relay-be/internal/controller"
	"chat-relay-be/internal/pkg/logger"
	"chat-relay-be/internal/repository/implementation"
	"chat-relay-be/internal/service"
	"chat-relay-be/pkg/predict"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController         controller.IChatController
	ChatSessionController  controller.IChatSessionController
	UploadController       controller.IUploadController
	UploadedFileController controller.IUploadedFileController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Redis
	rdb := newRedisClient(cfg.App.RedisURL)

	// 3. Outbound Dispatchers
	// Non-production environments never reach the real prediction APIs.
	dispatchClient := predict.NewClient(
		sysLogger,
		predict.WithMaxRetries(cfg.Predict.MaxRetries),
		predict.WithBaseDelay(time.Duration(cfg.Predict.RetryBaseDelay)*time.Second),
		predict.WithMockMode(!cfg.IsProduction()),
	)
	chatClient := predict.NewChatClient(dispatchClient, cfg.Predict.ChatURL, time.Duration(cfg.Predict.ChatTimeout)*time.Second)
	uploadClient := predict.NewUploadClient(dispatchClient, cfg.Predict.UploadURL, time.Duration(cfg.Predict.UploadTimeout)*time.Second)

	// 4. Repositories
	sessionRepo := implementation.NewChatSessionRepository(db)
	uploadedFileRepo := implementation.NewUploadedFileRepository(db)

	// 5. Services
	chatService := service.NewChatService(chatClient)
	sessionService := service.NewChatSessionService(sessionRepo, chatClient, pubSub, rdb, sysLogger)
	uploadService := service.NewFileUploadService(uploadClient, uploadedFileRepo, pubSub, sysLogger)
	uploadedFileService := service.NewUploadedFileService(uploadedFileRepo, sysLogger)
	consumerService := service.NewConsumerService(pubSub, rdb, sysLogger)

	// 6. Controllers
	return &Container{
		ChatController:         controller.NewChatController(chatService),
		ChatSessionController:  controller.NewChatSessionController(sessionService),
		UploadController:       controller.NewUploadController(uploadService),
		UploadedFileController: controller.NewUploadedFileController(uploadedFileService),
		ConsumerService:        consumerService,
		Logger:                 sysLogger,
	}
}

// newRedisClient returns nil when Redis is unreachable; callers degrade to
// uncached reads.
func newRedisClient(redisURL string) *redis.Client {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: redisURL,
		}
	}

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Stats caching disabled", err)
		return nil
	}
	return rdb
}
