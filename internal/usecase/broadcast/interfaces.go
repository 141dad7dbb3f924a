package broadcast

import (
	"github.com/marcos-nsantos/presence-socket/internal/usecase/config"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/broadcast_mocks.go -package=mocks

// Notifier delivers a config update to a device's live connection. It
// returns domain.ErrDeviceNotConnected when the device has none.
type Notifier interface {
	NotifyConfig(cfg *config.DeviceConfig) error
}
