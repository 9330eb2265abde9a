package discount

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

var ErrMinimumNotMet = errors.New("order total below discount minimum")

type Service interface {
	// Redeem validates and consumes a code against an order total. On success
	// the code is used up and cannot be redeemed again.
	Redeem(ctx context.Context, code string, orderTotal float64) (amount, newTotal float64, err error)
	Issue(ctx context.Context, code *Code) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Redeem(ctx context.Context, code string, orderTotal float64) (float64, float64, error) {
	if orderTotal < MinimumOrderTotal {
		return 0, 0, ErrMinimumNotMet
	}

	amount, err := s.repo.Consume(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCodeUnavailable) {
			log.Warn().Str("code", code).Msg("service: discount code invalid or already used")
			return 0, 0, ErrCodeUnavailable
		}
		log.Error().Err(err).Str("code", code).Msg("service: failed to consume discount code")
		return 0, 0, fmt.Errorf("service: failed to consume discount code: %w", err)
	}

	newTotal := math.Max(0, orderTotal-amount)

	log.Info().Str("code", code).Float64("amount", amount).Msg("service: discount code redeemed")
	return amount, newTotal, nil
}

func (s *service) Issue(ctx context.Context, code *Code) error {
	if code.Code == "" {
		return errors.New("service: discount code cannot be empty")
	}
	if code.Amount < 0 {
		return errors.New("service: discount amount cannot be negative")
	}

	if err := s.repo.Create(ctx, code); err != nil {
		if errors.Is(err, ErrCodeExists) {
			return ErrCodeExists
		}
		log.Error().Err(err).Str("code", code.Code).Msg("service: failed to issue discount code")
		return fmt.Errorf("service: failed to issue discount code: %w", err)
	}

	log.Info().Str("code", code.Code).Float64("amount", code.Amount).Msg("service: discount code issued")
	return nil
}
