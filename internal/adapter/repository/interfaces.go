package repository

import (
	"context"

	"github.com/marcos-nsantos/presence-socket/internal/domain/entity"
	"github.com/marcos-nsantos/presence-socket/internal/pkg/pagination"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/repository_mocks.go -package=mocks

// DeviceRepository is the read side of the device store.
type DeviceRepository interface {
	// GetByID returns domain.ErrDeviceNotFound when no device has the id.
	GetByID(ctx context.Context, id string) (*entity.Device, error)
	// ListSchedules returns every device with the fields needed to compute
	// its status.
	ListSchedules(ctx context.Context) ([]entity.Device, error)
	List(ctx context.Context, params DeviceListParams) ([]entity.Device, *pagination.Info, error)
}

type DeviceListParams struct {
	Pagination pagination.Params
	Mode       *entity.Mode
}
