package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-docgen-be/internal/config"
	"ai-docgen-be/internal/controller"
	"ai-docgen-be/internal/handler"
	"ai-docgen-be/internal/pkg/logger"
	"ai-docgen-be/internal/repository/memory"
	"ai-docgen-be/internal/repository/unitofwork"
	"ai-docgen-be/internal/service"
	"ai-docgen-be/internal/websocket"
	"ai-docgen-be/internal/workflow"
	"ai-docgen-be/pkg/llm/factory"

	pktNats "ai-docgen-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	DocumentWSHandler *handler.DocumentWSHandler
	WebSocketHub      *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL(cfg),
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Workflow.SectionTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Workflow.SectionTopicName,
		uowFactory,
	)

	// Workflow Engine
	checkpointRepo := memory.NewCheckpointRepository()
	feedbackChannel := workflow.NewFeedbackChannel(wsHub)
	planner := workflow.NewSectionPlanner(llmProvider, sysLogger)
	generator := workflow.NewContentGenerator(llmProvider, sysLogger)
	recorder := service.NewSessionRecorder(uowFactory, publisherService, natsPub, sysLogger)

	engine := workflow.NewEngine(
		planner,
		generator,
		feedbackChannel,
		wsHub,
		recorder,
		checkpointRepo,
		sysLogger,
		time.Duration(cfg.Workflow.FeedbackTimeoutSeconds)*time.Second,
	)

	documentService := service.NewDocumentService(
		uowFactory,
		natsPub,
		engine,
		wsHub,
		checkpointRepo,
		sysLogger,
		cfg.App.JWTSecret,
	)

	// Handler
	wsHandler := handler.NewDocumentWSHandler(documentService, wsHub, feedbackChannel, wsLogger)

	// 4. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		DocumentWSHandler:  wsHandler,
		WebSocketHub:       wsHub,

		ConsumerService: consumerService,
	}
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "openai" {
		return cfg.Ai.OpenAIBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}
