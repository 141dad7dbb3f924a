package valueobject

import (
	"fmt"
	"time"
)

const MinutesPerDay = 24 * 60

// DailyWindow is a recurring time-of-day range in minutes since midnight.
// Start is inclusive and End exclusive. When End <= Start the window wraps
// past midnight.
type DailyWindow struct {
	Start int
	End   int
}

func NewDailyWindow(from, until time.Time, loc *time.Location) DailyWindow {
	return DailyWindow{
		Start: MinuteOfDay(from, loc),
		End:   MinuteOfDay(until, loc),
	}
}

// MinuteOfDay converts t to loc and returns hour*60+minute. Seconds are
// dropped.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Hour()*60 + t.Minute()
}

func (w DailyWindow) Wraps() bool {
	return w.End <= w.Start
}

func (w DailyWindow) Contains(minute int) bool {
	if w.Wraps() {
		return minute >= w.Start || minute < w.End
	}
	return minute >= w.Start && minute < w.End
}

func (w DailyWindow) String() string {
	return fmt.Sprintf("%s-%s", FormatMinute(w.Start), FormatMinute(w.End))
}

func FormatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
