package bootstrap

import (
	"context"
	"time"

	"member-chat-be/internal/client"
	"member-chat-be/internal/config"
	"member-chat-be/internal/controller"
	"member-chat-be/internal/hours"
	"member-chat-be/internal/pkg/logger"
	"member-chat-be/internal/repository/memory"
	"member-chat-be/internal/service"
	"member-chat-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	ChatController     controller.ChatController
	PlanController     controller.PlanController
	CobrowseController controller.CobrowseController

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Upstream backend + business hours
	backend := client.NewHTTPBackend(
		cfg.Upstream.BaseURL,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
		sysLogger,
	)
	evaluator := hours.NewEvaluator()
	provider := hours.NewProvider(
		backend,
		time.Duration(cfg.Upstream.HoursCacheTTL)*time.Minute,
		sysLogger,
	)

	// 4. In-memory state
	snapshots := memory.NewSnapshotRepository()
	members := memory.NewSessionStore(1*time.Hour, 10*time.Minute)

	// 5. Services
	chatService := service.NewChatService(
		members,
		snapshots,
		backend,
		provider,
		evaluator,
		pubSub,
		pubSub,
		sysLogger,
	)

	// 6. WebSocket Hub (isolated log keeps transcripts out of main logs)
	wsLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)
	wsHub := websocket.NewHub(pubSub, wsLogger)
	go wsHub.Run(context.Background())

	// 7. Controllers
	return &Container{
		ChatController:     controller.NewChatController(chatService),
		PlanController:     controller.NewPlanController(chatService),
		CobrowseController: controller.NewCobrowseController(chatService),
		WebSocketHub:       wsHub,
	}
}
