package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/presence-socket/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/presence-socket/internal/adapter/realtime"
	"github.com/marcos-nsantos/presence-socket/internal/domain"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/observability"
)

// SocketHandler upgrades device connections and dispatches their messages.
type SocketHandler struct {
	configSvc ConfigService
	hub       *realtime.Hub
	registry  *realtime.Registry
	upgrader  websocket.Upgrader
	clientCfg realtime.ClientConfig
	metrics   *observability.Metrics
	logger    *zap.Logger
}

type SocketHandlerConfig struct {
	ConfigService ConfigService
	Hub           *realtime.Hub
	Registry      *realtime.Registry
	ClientConfig  realtime.ClientConfig
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

func NewSocketHandler(cfg SocketHandlerConfig) *SocketHandler {
	return &SocketHandler{
		configSvc: cfg.ConfigService,
		hub:       cfg.Hub,
		registry:  cfg.Registry,
		upgrader:  realtime.NewUpgrader(),
		clientCfg: cfg.ClientConfig,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
}

// Connect upgrades the request and serves the socket until it closes.
func (h *SocketHandler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("socket upgrade failed", zap.Error(err), zap.String("ip", c.ClientIP()))
		return
	}

	client := realtime.NewClient(conn, h.clientCfg)
	total := h.hub.Add(client)
	h.metrics.SetConnections(total)
	h.logger.Info("client connected",
		zap.String("conn_id", client.ID()),
		zap.String("remote", client.RemoteAddr()),
		zap.Int("connections", total),
	)

	ctx := c.Request.Context()
	runErr := client.Run(func(msg []byte) {
		h.HandleMessage(ctx, client, msg)
	})
	h.Disconnect(client, runErr)
}

// Disconnect drops every trace of conn. A transport error gets the same
// cleanup as a clean close.
func (h *SocketHandler) Disconnect(conn realtime.Conn, cause error) {
	if cause != nil {
		h.logger.Warn("socket error", zap.String("conn_id", conn.ID()), zap.Error(cause))
	}

	for _, id := range h.registry.RemoveConn(conn) {
		h.logger.Info("device connection dropped", zap.String("alat_id", id), zap.String("conn_id", conn.ID()))
	}
	total := h.hub.Remove(conn)

	h.metrics.SetConnections(total)
	h.metrics.SetRegistered(h.registry.Len())
	h.logger.Info("client disconnected", zap.String("conn_id", conn.ID()), zap.Int("connections", total))
}

// HandleMessage processes one inbound frame. Nothing here closes the
// connection; failures are logged and the frame is dropped.
func (h *SocketHandler) HandleMessage(ctx context.Context, conn realtime.Conn, data []byte) {
	log := h.logger.With(zap.String("conn_id", conn.ID()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic handling socket message", zap.Any("error", r))
		}
	}()

	var msg request.SocketMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warn("failed to process message",
			zap.Error(fmt.Errorf("%w: %v", domain.ErrInvalidMessage, err)),
			zap.ByteString("payload", truncate(data, 256)),
		)
		h.metrics.ObserveMessage("invalid")
		return
	}
	log.Debug("message received", zap.String("event", msg.Event), zap.String("alat_id", msg.AlatID))

	switch msg.Event {
	case request.EventRequestConfig:
		h.metrics.ObserveMessage(msg.Event)
		h.handleRequestConfig(ctx, log, conn, msg)
	case request.EventBroadcast:
		h.metrics.ObserveMessage(msg.Event)
		h.handleBroadcast(log, msg)
	default:
		h.metrics.ObserveMessage("other")
		log.Debug("ignoring message", zap.String("event", msg.Event))
	}
}

func (h *SocketHandler) handleRequestConfig(ctx context.Context, log *zap.Logger, conn realtime.Conn, msg request.SocketMessage) {
	if msg.AlatID == "" {
		return
	}
	log = log.With(zap.String("alat_id", msg.AlatID))

	if previous, replaced := h.registry.Register(msg.AlatID, conn); replaced {
		log.Info("device connection replaced", zap.String("previous_conn_id", previous.ID()))
	}
	h.metrics.SetRegistered(h.registry.Len())

	cfg, err := h.configSvc.GetConfig(ctx, msg.AlatID)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			log.Debug("config requested for unknown device")
			return
		}
		log.Error("failed to load device config", zap.Error(err))
		return
	}

	payload, err := json.Marshal(response.ConfigToReply(cfg))
	if err != nil {
		log.Error("failed to encode config", zap.Error(err))
		return
	}
	if err := conn.Send(payload); err != nil {
		log.Warn("failed to send config", zap.Error(err))
		return
	}

	log.Info("config sent", zap.String("mode", string(cfg.Mode)), zap.String("status", string(cfg.Status)))
}

func (h *SocketHandler) handleBroadcast(log *zap.Logger, msg request.SocketMessage) {
	if len(msg.Data) == 0 {
		log.Warn("failed to process message", zap.Error(domain.ErrMissingBroadcastData))
		return
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, msg.Data); err != nil {
		log.Warn("failed to process message", zap.Error(fmt.Errorf("%w: %v", domain.ErrInvalidMessage, err)))
		return
	}

	sent := h.hub.Broadcast(buf.Bytes())
	log.Info("broadcast relayed", zap.Int("recipients", sent), zap.Int("bytes", buf.Len()))
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
