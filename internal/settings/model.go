package settings

import (
	"strings"
	"time"
)

// Keys used by the admin panel and the admission engine.
const (
	KeyIsOpen          = "is_open"
	KeyClosedDays      = "closed_days"
	KeyPickupEnabled   = "pickup_enabled"
	KeyDeliveryEnabled = "delivery_enabled"
	KeyPickupStart     = "pickup_start"
	KeyPickupEnd       = "pickup_end"
	KeyDeliveryStart   = "delivery_start"
	KeyDeliveryEnd     = "delivery_end"
)

type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Window is a daily time window in "HH:MM" form. Start after End means the
// window wraps past midnight.
type Window struct {
	Enabled bool
	Start   string
	End     string
}

// Hours is the admission engine's view of the settings table.
type Hours struct {
	IsOpen     bool
	ClosedDays map[time.Weekday]bool
	Pickup     Window
	Delivery   Window
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseHours builds an Hours view from the raw key/value map. Missing keys
// fall back to open-with-no-restrictions so a half-configured store does not
// lock itself out.
func ParseHours(values map[string]string) Hours {
	h := Hours{
		IsOpen:     parseBool(values[KeyIsOpen], true),
		ClosedDays: map[time.Weekday]bool{},
		Pickup: Window{
			Enabled: parseBool(values[KeyPickupEnabled], true),
			Start:   values[KeyPickupStart],
			End:     values[KeyPickupEnd],
		},
		Delivery: Window{
			Enabled: parseBool(values[KeyDeliveryEnabled], true),
			Start:   values[KeyDeliveryStart],
			End:     values[KeyDeliveryEnd],
		},
	}

	for _, name := range strings.Split(values[KeyClosedDays], ",") {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if ok {
			h.ClosedDays[day] = true
		}
	}

	return h
}

func parseBool(v string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}
