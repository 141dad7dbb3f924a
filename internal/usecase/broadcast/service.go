package broadcast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/presence-socket/internal/adapter/repository"
	"github.com/marcos-nsantos/presence-socket/internal/domain"
	"github.com/marcos-nsantos/presence-socket/internal/domain/entity"
	"github.com/marcos-nsantos/presence-socket/internal/infrastructure/observability"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/config"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/schedule"
)

// Service re-evaluates every device on each tick and pushes a config update
// to the devices whose status flipped.
type Service struct {
	deviceRepo repository.DeviceRepository
	evaluator  *schedule.Evaluator
	notifier   Notifier
	states     *StateTable
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

type ServiceConfig struct {
	DeviceRepo repository.DeviceRepository
	Evaluator  *schedule.Evaluator
	Notifier   Notifier
	States     *StateTable
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		deviceRepo: cfg.DeviceRepo,
		evaluator:  cfg.Evaluator,
		notifier:   cfg.Notifier,
		states:     cfg.States,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
	if s.states == nil {
		s.states = NewStateTable()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type TickResult struct {
	Evaluated int
	Changed   int
	Delivered int
	Skipped   int
	Failed    int
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeRegistration
	outcomeDelivered
	outcomeSkipped
	outcomeFailed
)

// Tick runs one evaluation pass. Only a failed bulk read is returned as an
// error; per-device failures are logged and counted.
func (s *Service) Tick(ctx context.Context) (TickResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveTick(time.Since(start)) }()

	devices, err := s.deviceRepo.ListSchedules(ctx)
	if err != nil {
		return TickResult{}, fmt.Errorf("listing devices: %w", err)
	}

	now := s.now()
	var result TickResult
	for i := range devices {
		switch s.processDevice(ctx, &devices[i], now) {
		case outcomeRegistration:
			continue
		case outcomeDelivered:
			result.Changed++
			result.Delivered++
		case outcomeSkipped:
			result.Changed++
			result.Skipped++
		case outcomeFailed:
			result.Changed++
			result.Failed++
		}
		result.Evaluated++
	}

	return result, nil
}

// Run is the scheduler entry point.
func (s *Service) Run(ctx context.Context) {
	result, err := s.Tick(ctx)
	if err != nil {
		s.logger.Error("broadcast tick failed", zap.Error(err))
		return
	}
	if result.Changed > 0 {
		s.logger.Debug("broadcast tick",
			zap.Int("evaluated", result.Evaluated),
			zap.Int("changed", result.Changed),
			zap.Int("delivered", result.Delivered),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
	}
}

func (s *Service) processDevice(ctx context.Context, device *entity.Device, now time.Time) (out outcome) {
	log := s.logger.With(zap.String("alat_id", device.ID), zap.String("nama", device.Name))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic processing device", zap.Any("error", r))
			out = outcomeFailed
		}
	}()

	if device.InRegistration() {
		return outcomeRegistration
	}

	status := s.evaluator.Status(device, now)
	if !s.states.Swap(device.ID, status) {
		return outcomeUnchanged
	}
	s.metrics.ObserveTransition(string(status))

	// The mode may have changed since the bulk read.
	fresh, err := s.deviceRepo.GetByID(ctx, device.ID)
	if err != nil {
		if errors.Is(err, domain.ErrDeviceNotFound) {
			log.Info("device removed before notification")
			return outcomeSkipped
		}
		log.Error("failed to refresh device", zap.Error(err))
		s.metrics.ObserveDelivery(observability.DeliveryFailed)
		return outcomeFailed
	}
	if fresh.InRegistration() {
		log.Info("device entered registration, notification dropped", zap.String("status", string(status)))
		return outcomeSkipped
	}

	if status == entity.StatusActive {
		log.Info("device became active")
	} else {
		log.Info("device became inactive")
	}

	err = s.notifier.NotifyConfig(&config.DeviceConfig{
		DeviceID: fresh.ID,
		Name:     fresh.Name,
		Mode:     fresh.Mode,
		Status:   status,
	})
	switch {
	case err == nil:
		s.metrics.ObserveDelivery(observability.DeliverySent)
		return outcomeDelivered
	case errors.Is(err, domain.ErrDeviceNotConnected):
		log.Warn("device not connected, config update skipped", zap.String("status", string(status)))
		s.metrics.ObserveDelivery(observability.DeliverySkipped)
		return outcomeSkipped
	default:
		log.Error("failed to send config update", zap.Error(err))
		s.metrics.ObserveDelivery(observability.DeliveryFailed)
		return outcomeFailed
	}
}
