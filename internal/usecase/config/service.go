package config

import (
	"context"
	"fmt"
	"time"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/repository"
	"github.com/marcos-nsantos/presence-socket/internal/domain/entity"
	"github.com/marcos-nsantos/presence-socket/internal/pkg/pagination"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/schedule"
)

// DeviceConfig is what a device is told about itself.
type DeviceConfig struct {
	DeviceID string
	Name     string
	Mode     entity.Mode
	Status   entity.Status
}

type Service struct {
	deviceRepo repository.DeviceRepository
	evaluator  *schedule.Evaluator
	now        func() time.Time
}

func NewService(deviceRepo repository.DeviceRepository, evaluator *schedule.Evaluator) *Service {
	return &Service{
		deviceRepo: deviceRepo,
		evaluator:  evaluator,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetConfig reads the device and computes its current status. It returns
// domain.ErrDeviceNotFound for unknown ids.
func (s *Service) GetConfig(ctx context.Context, deviceID string) (*DeviceConfig, error) {
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("getting device: %w", err)
	}

	return &DeviceConfig{
		DeviceID: device.ID,
		Name:     device.Name,
		Mode:     device.Mode,
		Status:   s.evaluator.Status(device, s.now()),
	}, nil
}

type ListInput struct {
	Page    int
	PerPage int
	Mode    *entity.Mode
}

// ListConfigs returns one page of devices with their current status.
func (s *Service) ListConfigs(ctx context.Context, input ListInput) ([]DeviceConfig, *pagination.Info, error) {
	devices, pageInfo, err := s.deviceRepo.List(ctx, repository.DeviceListParams{
		Pagination: pagination.NewParams(input.Page, input.PerPage),
		Mode:       input.Mode,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("listing devices: %w", err)
	}

	now := s.now()
	configs := make([]DeviceConfig, 0, len(devices))
	for i := range devices {
		configs = append(configs, DeviceConfig{
			DeviceID: devices[i].ID,
			Name:     devices[i].Name,
			Mode:     devices[i].Mode,
			Status:   s.evaluator.Status(&devices[i], now),
		})
	}
	return configs, pageInfo, nil
}
