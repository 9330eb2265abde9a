package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/order"
)

const channelTimeout = 5 * time.Second

// Channel is one best-effort notification target for an accepted order.
type Channel interface {
	Name() string
	Send(ctx context.Context, o *order.Order, text string) error
}

type Result struct {
	Channel string
	Err     error
}

// Dispatcher fans an accepted order out to every configured channel. The order
// is already committed when Dispatch runs: a channel failure is logged and
// never surfaces to the customer.
type Dispatcher struct {
	storeName string
	channels  []Channel
}

func NewDispatcher(storeName string, channels ...Channel) *Dispatcher {
	return &Dispatcher{storeName: storeName, channels: channels}
}

// Dispatch notifies all channels concurrently, at most once each, with an
// independent timeout per channel.
func (d *Dispatcher) Dispatch(ctx context.Context, o *order.Order) []Result {
	text := OrderText(d.storeName, o)
	results := make([]Result, len(d.channels))

	var wg sync.WaitGroup
	for i, ch := range d.channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()

			chCtx, cancel := context.WithTimeout(ctx, channelTimeout)
			defer cancel()

			err := ch.Send(chCtx, o, text)
			results[i] = Result{Channel: ch.Name(), Err: err}
			if err != nil {
				log.Error().Err(err).
					Str("channel", ch.Name()).
					Str("order_number", o.OrderNumber).
					Msg("notify: channel dispatch failed")
			} else {
				log.Info().
					Str("channel", ch.Name()).
					Str("order_number", o.OrderNumber).
					Msg("notify: channel notified")
			}
		}(i, ch)
	}
	wg.Wait()

	return results
}

// DispatchAsync runs Dispatch off the request path so notification I/O never
// delays the client's response.
func (d *Dispatcher) DispatchAsync(o *order.Order) {
	go d.Dispatch(context.Background(), o)
}
