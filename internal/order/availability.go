package order

import (
	"fmt"
	"time"

	"github.com/novaasia/ordering-service/internal/settings"
)

// ChannelState is recomputed on every admission check from the current wall
// clock and the settings table; nothing is stored.
type ChannelState int

const (
	StateClosedGlobal ChannelState = iota
	StateClosedDay
	StateClosedChannel
	StateBeforeWindow
	StateOpen
	StateAfterWindow
)

func (s ChannelState) String() string {
	switch s {
	case StateClosedGlobal:
		return "closed_global"
	case StateClosedDay:
		return "closed_day"
	case StateClosedChannel:
		return "closed_channel"
	case StateBeforeWindow:
		return "before_window"
	case StateOpen:
		return "open"
	case StateAfterWindow:
		return "after_window"
	default:
		return "unknown"
	}
}

// Clock is a minute-of-day value parsed from "HH:MM".
type Clock int

func ParseClock(raw string) (Clock, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(raw, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", raw)
	}
	return Clock(hh*60 + mm), nil
}

func clockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// inWindow reports whether now falls in [start, end). A window whose start is
// after its end wraps past midnight.
func inWindow(start, end, now Clock) bool {
	if start <= end {
		return now >= start && now < end
	}
	return now >= start || now < end
}

// ChannelAvailability classifies a channel for the given local wall time.
func ChannelAvailability(h settings.Hours, typ Type, now time.Time) ChannelState {
	if !h.IsOpen {
		return StateClosedGlobal
	}
	if h.ClosedDays[now.Weekday()] {
		return StateClosedDay
	}

	window := h.Pickup
	if typ == TypeDelivery {
		window = h.Delivery
	}
	if !window.Enabled {
		return StateClosedChannel
	}

	start, errStart := ParseClock(window.Start)
	end, errEnd := ParseClock(window.End)
	if errStart != nil || errEnd != nil {
		// No parsable window configured means the channel is open all day.
		return StateOpen
	}

	nowClock := clockOf(now)
	if inWindow(start, end, nowClock) {
		return StateOpen
	}
	if start > end {
		// Wrapped window: any time outside it sits between last night's close
		// and tonight's open.
		return StateBeforeWindow
	}
	if nowClock < start {
		return StateBeforeWindow
	}
	return StateAfterWindow
}
