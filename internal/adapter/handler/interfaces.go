package handler

import (
	"context"

	"github.com/marcos-nsantos/presence-socket/internal/pkg/pagination"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/config"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type ConfigService interface {
	GetConfig(ctx context.Context, deviceID string) (*config.DeviceConfig, error)
	ListConfigs(ctx context.Context, input config.ListInput) ([]config.DeviceConfig, *pagination.Info, error)
}
