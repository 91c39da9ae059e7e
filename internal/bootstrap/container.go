package bootstrap

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/molinerisit/wa-bot-sheets/internal/config"
	"github.com/molinerisit/wa-bot-sheets/internal/controller"
	"github.com/molinerisit/wa-bot-sheets/internal/handler"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/mailer"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/serverutils"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/memory"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/redisstore"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
	"github.com/molinerisit/wa-bot-sheets/internal/service"
	"github.com/molinerisit/wa-bot-sheets/internal/websocket"
	"github.com/molinerisit/wa-bot-sheets/pkg/chatbot"
	"github.com/molinerisit/wa-bot-sheets/pkg/embedding"
	"github.com/molinerisit/wa-bot-sheets/pkg/evolution"
	"github.com/molinerisit/wa-bot-sheets/pkg/externaldb"
	"github.com/molinerisit/wa-bot-sheets/pkg/intent"
	"github.com/molinerisit/wa-bot-sheets/pkg/llm"
	"github.com/molinerisit/wa-bot-sheets/pkg/llm/factory"
	pktNats "github.com/molinerisit/wa-bot-sheets/pkg/nats"
	"github.com/molinerisit/wa-bot-sheets/pkg/rag"
	"github.com/molinerisit/wa-bot-sheets/pkg/store"
	"github.com/molinerisit/wa-bot-sheets/pkg/webhook"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	HealthController  controller.IHealthController
	WebhookController controller.IWebhookController
	BotController     controller.IBotController
	AdminController   controller.IAdminController

	// Background services, started by main
	ConsumerService service.IConsumerService
	MonitorHub      *websocket.Hub

	// ReservationSubscriber is nil without NATS; the notifier then runs
	// inline as the event publisher.
	ReservationSubscriber *pktNats.Subscriber
	ReservationNotifier   *service.ReservationNotifier

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	monitorLogger := logger.NewIsolatedLogger(cfg.App.MonitorLogPath)

	c := &Container{Logger: sysLogger}

	// 2. Redis, optional unless it backs the sessions
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.Redis.URL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	sessionTTL := time.Duration(cfg.Session.TTLSeconds) * time.Second
	var sessions store.SessionStore
	if cfg.Session.Backend == "redis" && rdb != nil {
		sessions = redisstore.NewSessionRepository(rdb, cfg.Session.KeyPrefix, sessionTTL)
	} else {
		sessions = memory.NewSessionRepository(sessionTTL)
	}
	sysLogger.Info("Bootstrap", "Session backend ready", map[string]interface{}{"backend": cfg.Session.Backend})

	// 3. Model providers; a missing key degrades the stages that need them
	var llmProvider llm.LLMProvider
	if p, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.LLMBaseURL, cfg.Ai.LLMAPIKey); err != nil {
		sysLogger.Warn("Bootstrap", "LLM provider disabled", map[string]interface{}{"error": err.Error()})
	} else {
		llmProvider = p
		sysLogger.Info("Bootstrap", "LLM provider ready", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})
	}

	var embedder embedding.EmbeddingProvider
	if p, err := embedding.NewProvider(cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingAPIKey, cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel); err != nil {
		sysLogger.Warn("Bootstrap", "Embedding provider disabled", map[string]interface{}{"error": err.Error()})
	} else {
		embedder = p
	}

	settingsLoader := service.NewSettingsLoader(uowFactory, service.SettingsDefaults{
		MaxTurns:      cfg.Bot.MaxTurns,
		HistoryWindow: cfg.Bot.HistoryWindow,
		TopK:          cfg.Rag.TopK,
	}, sysLogger)

	var ragService *rag.Service
	if embedder != nil {
		ragService = rag.NewService(service.NewRagStore(uowFactory), embedder, llmProvider, rag.Config{
			TopK:      cfg.Rag.TopK,
			MinScore:  cfg.Rag.MinScore,
			ChunkSize: cfg.Rag.ChunkSize,
			Dimension: cfg.Rag.Dimension,
		}, rag.WithLogger(sysLogger))
	}

	// 4. Catalog chain: external DB, products table, CSV
	externalSource := externaldb.NewSource(settingsLoader.ExternalDB, sysLogger)
	c.closers = append(c.closers, externalSource.Close)
	catalogSource := service.NewCatalogSource(externalSource, service.NewProductSource(uowFactory), cfg.Catalog.CSVPath, sysLogger)

	// 5. Outbound channels
	evoClient := evolution.NewClient(evolution.Config{
		BaseURL:  cfg.Evolution.URL,
		Token:    cfg.Evolution.Token,
		Instance: cfg.Evolution.Instance,
		Delay:    cfg.Evolution.DelayMs,
	})
	if !evoClient.Configured() {
		sysLogger.Warn("Bootstrap", "Evolution API not configured, replies will not be delivered", nil)
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)
	notifier := service.NewReservationNotifier(emailService, cfg.SMTP.OwnerEmail, evoClient, cfg.Evolution.OwnerNumber, sysLogger)
	c.ReservationNotifier = notifier

	// 6. Domain events
	var eventPublisher pktNats.EventPublisher = notifier
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect NATS publisher, notifying inline", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect NATS subscriber", map[string]interface{}{"error": err.Error()})
		} else {
			c.ReservationSubscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
	}
	reservationService := service.NewReservationService(uowFactory, eventPublisher, sysLogger)

	// 7. Engine
	deps := chatbot.Deps{
		Sessions:   sessions,
		Settings:   settingsLoader,
		Catalog:    catalogSource,
		Keywords:   llmProvider,
		Classifier: intent.NewClassifier(llmProvider, intent.WithClassifierLogger(sysLogger)),
		Agenda:     reservationService,
		Turns:      service.NewConversationTurnCounter(uowFactory),
		Log:        sysLogger,
	}
	if ragService != nil && llmProvider != nil {
		deps.Retriever = ragService
	}
	engine := chatbot.NewEngine(deps)

	// 8. Monitor and message pipeline
	hub := websocket.NewHub(rdb, monitorLogger)
	c.MonitorHub = hub

	chatbotService := service.NewChatbotService(engine, uowFactory, evoClient, sysLogger,
		service.WithTurnObserver(hub),
		service.WithSerializedTurns(cfg.Session.SerializeTurns),
	)

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	publisherService := service.NewPublisherService(pubSub, cfg.Worker.InboundTopic)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Worker.InboundTopic, chatbotService, cfg.Worker.Concurrency, sysLogger)

	// 9. Controllers
	var ragDocs controller.RagDocuments
	if ragService != nil {
		ragDocs = ragService
	}
	monitorHandler := handler.NewMonitorHandler(hub, monitorLogger)

	c.HealthController = controller.NewHealthController()
	c.WebhookController = controller.NewWebhookController(webhook.NewExtractor(webhook.WithLogger(sysLogger)), publisherService, sysLogger)
	c.BotController = controller.NewBotController(chatbotService)
	c.AdminController = controller.NewAdminController(
		service.NewAdminService(uowFactory, settingsLoader, sysLogger),
		service.NewAdminResources(uowFactory),
		reservationService,
		ragDocs,
		serverutils.AdminCredentials{
			Token:     cfg.Admin.Token,
			TokenHash: cfg.Admin.TokenHash,
			JWTSecret: cfg.Admin.JWTSecret,
		},
		monitorHandler.RegisterRoutes,
	)

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
