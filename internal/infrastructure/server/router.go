package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/handler"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/middleware"
)

type Router struct {
	engine        *gin.Engine
	socketHandler *handler.SocketHandler
	deviceHandler *handler.DeviceHandler
	rateLimiter   *middleware.RateLimiter
	metrics       http.Handler
	socketPath    string
	logger        *zap.Logger
}

type RouterConfig struct {
	SocketHandler *handler.SocketHandler
	DeviceHandler *handler.DeviceHandler
	// RateLimiter is optional.
	RateLimiter    *middleware.RateLimiter
	MetricsHandler http.Handler
	SocketPath     string
	Logger         *zap.Logger
	Environment    string
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	socketPath := cfg.SocketPath
	if socketPath == "" {
		socketPath = "/"
	}

	r := &Router{
		engine:        engine,
		socketHandler: cfg.SocketHandler,
		deviceHandler: cfg.DeviceHandler,
		rateLimiter:   cfg.RateLimiter,
		metrics:       cfg.MetricsHandler,
		socketPath:    socketPath,
		logger:        cfg.Logger,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.CORS())
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics))
	}

	r.engine.GET(r.socketPath, r.limited(r.socketHandler.Connect)...)

	api := r.engine.Group("/api/v1")
	if r.rateLimiter != nil {
		api.Use(r.rateLimiter.Limit())
	}
	{
		api.GET("/connections", r.deviceHandler.Connections)
		api.GET("/devices", r.deviceHandler.List)
		api.GET("/devices/:id/status", r.deviceHandler.Status)
	}
}

func (r *Router) limited(h gin.HandlerFunc) []gin.HandlerFunc {
	if r.rateLimiter == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{r.rateLimiter.Limit(), h}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
