package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/handler"
	"github.com/marcos-nsantos/presence-socket/internal/adapter/realtime"
	"github.com/marcos-nsantos/presence-socket/internal/adapter/repository/postgres"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/cache"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/config"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/database"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/observability"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/scheduler"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/server"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/broadcast"
	configUC "github.com/marcos-nsantos/presence-socket/internal/usecase/config"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	loc, err := cfg.Schedule.Location()
	if err != nil {
		logger.Fatal("invalid schedule timezone", zap.Error(err))
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.MigrationsPath != "" {
		applied, err := database.RunMigrations(ctx, pool, cfg.Database.MigrationsPath)
		if err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Strings("files", applied))
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit, logger)
	}

	metrics := observability.NewMetrics()

	// Repositories
	deviceRepo := postgres.NewDeviceRepo(pool)

	// Realtime state shared by the socket handler and the broadcaster
	hub := realtime.NewHub()
	registry := realtime.NewRegistry()

	// Use cases
	evaluator := schedule.NewEvaluator(loc, logger.Named("schedule"))
	configSvc := configUC.NewService(deviceRepo, evaluator)
	broadcastSvc := broadcast.NewService(broadcast.ServiceConfig{
		DeviceRepo: deviceRepo,
		Evaluator:  evaluator,
		Notifier:   handler.NewConfigNotifier(registry),
		States:     broadcast.NewStateTable(),
		Metrics:    metrics,
		Logger:     logger.Named("broadcast"),
	})

	// Handlers
	socketHandler := handler.NewSocketHandler(handler.SocketHandlerConfig{
		ConfigService: configSvc,
		Hub:           hub,
		Registry:      registry,
		ClientConfig: realtime.ClientConfig{
			MaxMessageSize: cfg.Socket.MaxMessageSize,
			PingInterval:   cfg.Socket.PingInterval,
			PongWait:       cfg.Socket.PongWait,
			WriteWait:      cfg.Socket.WriteWait,
			SendBuffer:     cfg.Socket.SendBuffer,
		},
		Metrics: metrics,
		Logger:  logger.Named("socket"),
	})
	deviceHandler := handler.NewDeviceHandler(configSvc, hub, registry)

	// Router
	router := server.NewRouter(server.RouterConfig{
		SocketHandler:  socketHandler,
		DeviceHandler:  deviceHandler,
		RateLimiter:    rateLimiter,
		MetricsHandler: metrics.Handler(),
		SocketPath:     cfg.Socket.Path,
		Logger:         logger,
		Environment:    cfg.Server.Environment,
	})

	// Server
	srv := server.NewServer(server.ServerConfig{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.Engine(),
		Logger:       logger,
	})

	// Broadcaster
	sched := scheduler.New(logger)
	if err := sched.Every("config-broadcast", cfg.Schedule.BroadcastInterval, broadcastSvc.Run); err != nil {
		logger.Fatal("failed to schedule broadcaster", zap.Error(err))
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()
	sched.Start()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := sched.Stop(ctx); err != nil {
		logger.Error("scheduler shutdown error", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	hub.CloseAll()

	logger.Info("server stopped")
}
