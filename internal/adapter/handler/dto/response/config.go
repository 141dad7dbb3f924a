package response

import (
	"github.com/marcos-nsantos/presence-socket/internal/pkg/pagination"
	"github.com/marcos-nsantos/presence-socket/internal/usecase/config"
)

const EventConfigUpdate = "config-update"

// ConfigUpdate is the outbound config message. Nama is only set on pushes
// from the broadcaster; the direct reply to request-config omits it.
type ConfigUpdate struct {
	Event  string  `json:"event"`
	AlatID string  `json:"alatId"`
	Nama   *string `json:"nama,omitempty"`
	Mode   string  `json:"mode"`
	Status string  `json:"status"`
}

func ConfigToReply(cfg *config.DeviceConfig) ConfigUpdate {
	return ConfigUpdate{
		Event:  EventConfigUpdate,
		AlatID: cfg.DeviceID,
		Mode:   string(cfg.Mode),
		Status: string(cfg.Status),
	}
}

func ConfigToPush(cfg *config.DeviceConfig) ConfigUpdate {
	name := cfg.Name
	return ConfigUpdate{
		Event:  EventConfigUpdate,
		AlatID: cfg.DeviceID,
		Nama:   &name,
		Mode:   string(cfg.Mode),
		Status: string(cfg.Status),
	}
}

type DeviceStatusResponse struct {
	AlatID    string `json:"alatId"`
	Nama      string `json:"nama"`
	Mode      string `json:"mode"`
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
}

func ConfigToStatusResponse(cfg *config.DeviceConfig, connected bool) DeviceStatusResponse {
	return DeviceStatusResponse{
		AlatID:    cfg.DeviceID,
		Nama:      cfg.Name,
		Mode:      string(cfg.Mode),
		Status:    string(cfg.Status),
		Connected: connected,
	}
}

type PaginationResponse struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type DeviceListResponse struct {
	Devices    []DeviceStatusResponse `json:"devices"`
	Pagination PaginationResponse     `json:"pagination"`
}

func PaginationFromInfo(info *pagination.Info) PaginationResponse {
	return PaginationResponse{
		Page:       info.Page,
		PerPage:    info.PerPage,
		TotalItems: info.TotalItems,
		TotalPages: info.TotalPages,
		HasNext:    info.HasNext,
		HasPrev:    info.HasPrev,
	}
}
