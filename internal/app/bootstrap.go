package app

import (
	"context"
	"time"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/health"
	"taskboard/internal/app/list"
	"taskboard/internal/app/notification"
	"taskboard/internal/app/session"
	"taskboard/internal/app/user"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/db/seeder"
	"taskboard/internal/gateways/websocket"
	"taskboard/internal/providers/redis"
	"taskboard/internal/router"
	"taskboard/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	seed := seeder.NewSeeder(dbConn, logger)
	if err := seed.Seed(); err != nil {
		logger.Warn("Failed to run seeders", zap.Error(err))
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	eventBus := utils.NewEventBus()
	go eventBus.Run()

	sessionRepo := session.NewRepository(dbConn)
	userRepo := user.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)
	listRepo := list.NewRepository(dbConn)
	cardRepo := card.NewRepository(dbConn)
	activityRepo := activity.NewRepository(dbConn)
	notificationRepo := notification.NewRepository(dbConn)

	engine := notification.NewEngine(notificationRepo, logger, cfg.NotificationDedupWindow)
	activityService := activity.NewService(activityRepo, redisProvider, eventBus, engine, logger, cfg.ActivityRetention)

	sessionService := session.NewService(sessionRepo, userRepo, redisProvider)
	userService := user.NewService(userRepo)
	boardService := board.NewService(boardRepo, userService, activityService, logger)
	listService := list.NewService(listRepo, boardService, activityService, redisProvider, logger)
	cardService := card.NewService(cardRepo, listService, boardService, activityService, redisProvider, logger)
	notificationService := notification.NewService(notificationRepo, logger)

	hub := websocket.NewHub(sessionService, logger)
	go hub.Run()
	eventBus.Subscribe("activity_logged", hub.BroadcastEvent)

	// Old activity records expire on a fixed schedule. Deliveries already made
	// from a purged record are kept.
	go func() {
		ticker := time.NewTicker(cfg.ActivityCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := activityService.PurgeExpired(context.Background())
			if err != nil {
				logger.Warn("Failed to purge expired activity records", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("Purged expired activity records", zap.Int64("removed", removed))
			}
		}
	}()

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	sessionHandler := session.NewHandler(sessionService)
	boardHandler := board.NewHandler(boardService, sessionService)
	listHandler := list.NewHandler(listService, sessionService)
	cardHandler := card.NewHandler(cardService, sessionService)
	activityHandler := activity.NewHandler(activityService)
	notificationHandler := notification.NewHandler(notificationService, sessionService)

	r := router.NewRouter(logger)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterSessionRoutes(sessionHandler)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterListRoutes(listHandler)
	r.RegisterCardRoutes(cardHandler)
	r.RegisterActivityRoutes(activityHandler)
	r.RegisterNotificationRoutes(notificationHandler)
	r.RegisterSwaggerRoutes()

	return &Application{
		Router: r,
		DB:     dbConn,
	}, nil
}
