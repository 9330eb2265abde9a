package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/discount"
	"github.com/novaasia/ordering-service/internal/settings"
)

var (
	ErrUnknownOrderType = errors.New("unknown order type")
	ErrChannelClosed    = errors.New("channel closed")
	ErrClosedToday      = errors.New("closed today, no next-day pre-order")
	ErrAfterClosing     = errors.New("closed for today")
	ErrNoItems          = errors.New("order must contain at least one item")
	ErrInvalidItem      = errors.New("invalid item price or quantity")
	ErrInvalidTip       = errors.New("tip cannot be negative")
	ErrOrderCancelled   = errors.New("cancelled order cannot be completed")
)

const maxNumberAttempts = 5

type Service interface {
	// PlaceOrder validates a submission against the current time-window
	// configuration, prices it, and persists it. Rejections leave no writes
	// behind.
	PlaceOrder(ctx context.Context, sub *Submission) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	ListToday(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, number string, patch StatusPatch) (*Order, error)
}

type service struct {
	orders   Repository
	settings settings.Repository
	loc      *time.Location
	now      func() time.Time
}

func NewService(orders Repository, settingsRepo settings.Repository, loc *time.Location) Service {
	return NewServiceWithClock(orders, settingsRepo, loc, time.Now)
}

// NewServiceWithClock injects the wall clock; admission decisions are pure
// functions of it.
func NewServiceWithClock(orders Repository, settingsRepo settings.Repository, loc *time.Location, now func() time.Time) Service {
	return &service{
		orders:   orders,
		settings: settingsRepo,
		loc:      loc,
		now:      now,
	}
}

func (s *service) PlaceOrder(ctx context.Context, sub *Submission) (*Order, error) {
	typ, ok := ParseType(sub.OrderType)
	if !ok {
		return nil, ErrUnknownOrderType
	}

	// Settings are re-read on every submission: the admin may have changed the
	// hours since the previous order.
	values, err := s.settings.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to read settings for admission")
		return nil, fmt.Errorf("service: failed to read settings: %w", err)
	}
	hours := settings.ParseHours(values)

	now := s.now().In(s.loc)
	if err := s.admit(hours, typ, sub.RequestedTime, now); err != nil {
		log.Warn().
			Str("order_type", typ.String()).
			Str("requested_time", sub.RequestedTime).
			Msg("service: order rejected by time-window admission")
		return nil, err
	}

	subtotal, err := computeSubtotal(sub.Items)
	if err != nil {
		return nil, err
	}

	if sub.Tip < 0 {
		return nil, ErrInvalidTip
	}

	total := subtotal
	if sub.Total != nil {
		total = round2(*sub.Total)
		if total != subtotal {
			log.Warn().
				Float64("client_total", total).
				Float64("computed_subtotal", subtotal).
				Msg("service: client-supplied total deviates from computed subtotal")
		}
	}

	if sub.DiscountCode != "" && subtotal < discount.MinimumOrderTotal {
		return nil, discount.ErrMinimumNotMet
	}

	o := &Order{
		Type:          typ,
		CustomerName:  sub.CustomerName,
		Phone:         sub.Phone,
		Email:         sub.Email,
		Remark:        sub.Remark,
		Address:       sub.Address,
		PaymentMethod: sub.PaymentMethod,
		Items:         sub.Items,
		Subtotal:      subtotal,
		Total:         total,
		Tip:           round2(sub.Tip),
		DiscountCode:  sub.DiscountCode,
	}
	if typ == TypePickup {
		o.PickupTime = sub.RequestedTime
	} else {
		o.DeliveryTime = sub.RequestedTime
	}

	for attempt := 0; ; attempt++ {
		o.OrderNumber, err = NewOrderNumber()
		if err != nil {
			return nil, fmt.Errorf("service: %w", err)
		}

		err = s.orders.Create(ctx, o)
		if err == nil {
			break
		}
		if errors.Is(err, ErrDuplicateOrderNumber) && attempt < maxNumberAttempts-1 {
			log.Warn().Str("order_number", o.OrderNumber).Msg("service: order number collision, regenerating")
			continue
		}
		if errors.Is(err, discount.ErrCodeUnavailable) {
			return nil, discount.ErrCodeUnavailable
		}
		log.Error().Err(err).Msg("service: failed to persist order")
		return nil, fmt.Errorf("service: failed to persist order: %w", err)
	}

	log.Info().
		Str("order_number", o.OrderNumber).
		Str("order_type", o.Type.String()).
		Float64("total", o.Total).
		Msg("service: order accepted")

	return o, nil
}

// admit applies the channel state machine. BeforeWindow admits only explicit
// future-time pre-orders; every other non-open state rejects.
func (s *service) admit(hours settings.Hours, typ Type, requestedTime string, now time.Time) error {
	switch ChannelAvailability(hours, typ, now) {
	case StateOpen:
		return nil
	case StateBeforeWindow:
		// An unparsable requested time counts as "no specific time requested",
		// mirroring the lenient intake this replaced.
		requested, err := ParseClock(requestedTime)
		if err == nil && requested > clockOf(now) {
			return nil
		}
		return ErrClosedToday
	case StateAfterWindow:
		return ErrAfterClosing
	default:
		return ErrChannelClosed
	}
}

func computeSubtotal(items map[string]Line) (float64, error) {
	if len(items) == 0 {
		return 0, ErrNoItems
	}

	subtotal := 0.0
	for name, line := range items {
		if line.Price < 0 || line.Qty < 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidItem, name)
		}
		subtotal += line.Price * float64(line.Qty)
	}

	return round2(subtotal), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *service) GetByNumber(ctx context.Context, number string) (*Order, error) {
	o, err := s.orders.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Str("order_number", number).Msg("service: failed to fetch order")
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}

	return o, nil
}

func (s *service) ListToday(ctx context.Context) ([]Order, error) {
	orders, err := s.orders.ListToday(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch today's orders")
		return nil, fmt.Errorf("service: failed to fetch today's orders: %w", err)
	}

	return orders, nil
}

func (s *service) UpdateStatus(ctx context.Context, number string, patch StatusPatch) (*Order, error) {
	current, err := s.orders.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Str("order_number", number).Msg("service: failed to get order for status update")
		return nil, fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	completed := current.IsCompleted
	cancelled := current.IsCancelled
	if patch.IsCompleted != nil {
		completed = *patch.IsCompleted
	}
	if patch.IsCancelled != nil {
		cancelled = *patch.IsCancelled
	}

	// A cancelled order stays cancelled; marking it completed is a staff
	// mistake, not a state transition.
	if completed && !current.IsCompleted && (current.IsCancelled || cancelled) {
		log.Warn().Str("order_number", number).Msg("service: attempt to complete a cancelled order")
		return nil, ErrOrderCancelled
	}

	if completed == current.IsCompleted && cancelled == current.IsCancelled {
		return current, nil
	}

	if err := s.orders.UpdateFlags(ctx, number, completed, cancelled); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Str("order_number", number).Msg("service: failed to update order flags")
		return nil, fmt.Errorf("service: failed to update order flags: %w", err)
	}

	current.IsCompleted = completed
	current.IsCancelled = cancelled

	log.Info().
		Str("order_number", number).
		Bool("is_completed", completed).
		Bool("is_cancelled", cancelled).
		Msg("service: order status updated")

	return current, nil
}
