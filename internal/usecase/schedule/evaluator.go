package schedule

import (
	"time"

	"go.uber.org/zap"

	"github.com/marcos-nsantos/presence-socket/internal/domain/entity"
	"github.com/marcos-nsantos/presence-socket/internal/domain/valueobject"
)

// Evaluator decides whether a device is inside its daily active window. All
// times are compared in a single reference zone.
type Evaluator struct {
	loc    *time.Location
	logger *zap.Logger
}

func NewEvaluator(loc *time.Location, logger *zap.Logger) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{loc: loc, logger: logger}
}

// IsActive reports whether now falls inside the device window. Devices
// without a complete schedule are always active.
func (e *Evaluator) IsActive(device *entity.Device, now time.Time) bool {
	window, ok := device.Window(e.loc)
	if !ok {
		return true
	}

	minute := valueobject.MinuteOfDay(now, e.loc)
	active := window.Contains(minute)

	if ce := e.logger.Check(zap.DebugLevel, "schedule check"); ce != nil {
		ce.Write(
			zap.String("alat_id", device.ID),
			zap.String("nama", device.Name),
			zap.String("now", valueobject.FormatMinute(minute)),
			zap.String("window", window.String()),
			zap.Bool("overnight", window.Wraps()),
			zap.Bool("active", active),
		)
	}

	return active
}

func (e *Evaluator) Status(device *entity.Device, now time.Time) entity.Status {
	return entity.StatusFromActive(e.IsActive(device, now))
}
