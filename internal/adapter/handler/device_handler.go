package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/presence-socket/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/presence-socket/internal/adapter/realtime"
	"github.com/marcos-nsantos/presence-socket/internal/domain"
	"github.com/marcos-nsantos/presence-socket/internal/domain/entity"
	"github.com/marcos-nsantos/presence-socket/internal/pkg/apperror"
	"github.com/marcos-nsantos/presence-socket/internal/pkg/httputil"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/config"
)

type DeviceHandler struct {
	configSvc ConfigService
	hub       *realtime.Hub
	registry  *realtime.Registry
}

func NewDeviceHandler(configSvc ConfigService, hub *realtime.Hub, registry *realtime.Registry) *DeviceHandler {
	return &DeviceHandler{configSvc: configSvc, hub: hub, registry: registry}
}

// Status returns the status a device would be told right now, and whether
// it currently has a registered live connection.
func (h *DeviceHandler) Status(c *gin.Context) {
	id := c.Param("id")

	cfg, err := h.configSvc.GetConfig(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			httputil.HandleError(c, apperror.NotFound("device"))
			return
		}
		httputil.HandleError(c, apperror.Internal(err))
		return
	}

	httputil.OK(c, response.ConfigToStatusResponse(cfg, h.connected(id)))
}

func (h *DeviceHandler) List(c *gin.Context) {
	var req request.ListDevicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	input := config.ListInput{Page: req.Page, PerPage: req.PerPage}
	if req.Mode != "" {
		mode := entity.Mode(req.Mode)
		input.Mode = &mode
	}

	configs, pageInfo, err := h.configSvc.ListConfigs(c.Request.Context(), input)
	if err != nil {
		httputil.InternalError(c)
		return
	}

	devices := make([]response.DeviceStatusResponse, 0, len(configs))
	for i := range configs {
		devices = append(devices, response.ConfigToStatusResponse(&configs[i], h.connected(configs[i].DeviceID)))
	}

	httputil.OK(c, response.DeviceListResponse{
		Devices:    devices,
		Pagination: response.PaginationFromInfo(pageInfo),
	})
}

func (h *DeviceHandler) connected(deviceID string) bool {
	conn, ok := h.registry.Lookup(deviceID)
	return ok && conn.IsOpen()
}

type connectionStats struct {
	Connections int `json:"connections"`
	Registered  int `json:"registered"`
}

func (h *DeviceHandler) Connections(c *gin.Context) {
	httputil.OK(c, connectionStats{
		Connections: h.hub.Count(),
		Registered:  h.registry.Len(),
	})
}
