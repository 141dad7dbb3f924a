package handler

import (
	"encoding/json"
	"fmt"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/presence-socket/internal/adapter/realtime"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/config"
)

// ConfigNotifier pushes broadcaster config updates over the registered
// device socket.
type ConfigNotifier struct {
	registry *realtime.Registry
}

func NewConfigNotifier(registry *realtime.Registry) *ConfigNotifier {
	return &ConfigNotifier{registry: registry}
}

func (n *ConfigNotifier) NotifyConfig(cfg *config.DeviceConfig) error {
	payload, err := json.Marshal(response.ConfigToPush(cfg))
	if err != nil {
		return fmt.Errorf("encoding config update: %w", err)
	}
	return n.registry.SendTo(cfg.DeviceID, payload)
}
