package entity

import (
	"time"

	"github.com/marcos-nsantos/presence-socket/internal/domain/valueobject"
)

type Mode string

const (
	ModeNormal       Mode = "NORMAL"
	ModeRegistration Mode = "REGISTRASI"
)

type Status string

const (
	StatusActive   Status = "AKTIF"
	StatusInactive Status = "NONAKTIF"
)

func StatusFromActive(active bool) Status {
	if active {
		return StatusActive
	}
	return StatusInactive
}

// Device is a presence unit as stored by the device store. ActiveFrom and
// ActiveUntil only carry a time of day; the date part is ignored.
type Device struct {
	ID          string
	Name        string
	Mode        Mode
	ActiveFrom  *time.Time
	ActiveUntil *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewDevice(id, name string, mode Mode) *Device {
	now := time.Now().UTC()
	return &Device{
		ID:        id,
		Name:      name,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *Device) SetSchedule(from, until time.Time) {
	d.ActiveFrom = &from
	d.ActiveUntil = &until
	d.UpdatedAt = time.Now().UTC()
}

func (d *Device) HasSchedule() bool {
	return d.ActiveFrom != nil && d.ActiveUntil != nil
}

func (d *Device) InRegistration() bool {
	return d.Mode == ModeRegistration
}

// Window returns the daily window in loc. ok is false when the device has no
// schedule configured.
func (d *Device) Window(loc *time.Location) (w valueobject.DailyWindow, ok bool) {
	if !d.HasSchedule() {
		return valueobject.DailyWindow{}, false
	}
	return valueobject.NewDailyWindow(*d.ActiveFrom, *d.ActiveUntil, loc), true
}
