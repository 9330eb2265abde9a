package order_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaasia/ordering-service/internal/order"
	"github.com/novaasia/ordering-service/internal/settings"
)

func hoursFixture() settings.Hours {
	return settings.Hours{
		IsOpen:     true,
		ClosedDays: map[time.Weekday]bool{},
		Pickup:     settings.Window{Enabled: true, Start: "11:00", End: "21:00"},
		Delivery:   settings.Window{Enabled: true, Start: "22:00", End: "02:00"},
	}
}

// localTime builds a wall-clock instant on a fixed Wednesday.
func localTime(t *testing.T, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", clock)
	require.NoError(t, err)
	return time.Date(2025, 6, 4, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func TestChannelAvailability(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*settings.Hours)
		typ      order.Type
		clock    string
		expected order.ChannelState
	}{
		{
			name:     "pickup_just_before_opening",
			typ:      order.TypePickup,
			clock:    "10:59",
			expected: order.StateBeforeWindow,
		},
		{
			name:     "pickup_at_opening",
			typ:      order.TypePickup,
			clock:    "11:00",
			expected: order.StateOpen,
		},
		{
			name:     "pickup_at_closing",
			typ:      order.TypePickup,
			clock:    "21:00",
			expected: order.StateAfterWindow,
		},
		{
			name:     "pickup_mid_window",
			typ:      order.TypePickup,
			clock:    "15:30",
			expected: order.StateOpen,
		},
		{
			name:     "overnight_delivery_open",
			typ:      order.TypeDelivery,
			clock:    "23:30",
			expected: order.StateOpen,
		},
		{
			name:     "overnight_delivery_after_midnight_open",
			typ:      order.TypeDelivery,
			clock:    "01:30",
			expected: order.StateOpen,
		},
		{
			name:     "overnight_delivery_closed_morning",
			typ:      order.TypeDelivery,
			clock:    "03:00",
			expected: order.StateBeforeWindow,
		},
		{
			name:     "globally_closed",
			mutate:   func(h *settings.Hours) { h.IsOpen = false },
			typ:      order.TypePickup,
			clock:    "12:00",
			expected: order.StateClosedGlobal,
		},
		{
			name:     "closed_weekday",
			mutate:   func(h *settings.Hours) { h.ClosedDays[time.Wednesday] = true },
			typ:      order.TypePickup,
			clock:    "12:00",
			expected: order.StateClosedDay,
		},
		{
			name:     "channel_disabled",
			mutate:   func(h *settings.Hours) { h.Pickup.Enabled = false },
			typ:      order.TypePickup,
			clock:    "12:00",
			expected: order.StateClosedChannel,
		},
		{
			name:     "unconfigured_window_is_open",
			mutate:   func(h *settings.Hours) { h.Pickup.Start, h.Pickup.End = "", "" },
			typ:      order.TypePickup,
			clock:    "04:00",
			expected: order.StateOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours := hoursFixture()
			if tt.mutate != nil {
				tt.mutate(&hours)
			}
			state := order.ChannelAvailability(hours, tt.typ, localTime(t, tt.clock))
			assert.Equal(t, tt.expected, state)
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		raw     string
		want    order.Clock
		wantErr bool
	}{
		{raw: "00:00", want: 0},
		{raw: "11:00", want: 11 * 60},
		{raw: "23:59", want: 23*60 + 59},
		{raw: "24:00", wantErr: true},
		{raw: "12:60", wantErr: true},
		{raw: "noon", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := order.ParseClock(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
