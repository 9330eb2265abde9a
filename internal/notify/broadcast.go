package notify

import (
	"context"

	"github.com/novaasia/ordering-service/internal/order"
	"github.com/novaasia/ordering-service/internal/realtime"
)

// BroadcastChannel pushes the accepted order to connected POS clients.
type BroadcastChannel struct {
	hub *realtime.Hub
}

func NewBroadcastChannel(hub *realtime.Hub) *BroadcastChannel {
	return &BroadcastChannel{hub: hub}
}

func (b *BroadcastChannel) Name() string {
	return "realtime"
}

func (b *BroadcastChannel) Send(_ context.Context, o *order.Order, text string) error {
	b.hub.Publish(realtime.Event{
		Type: "new_order",
		Data: map[string]any{
			"order":   o,
			"summary": text,
		},
	})
	return nil
}
