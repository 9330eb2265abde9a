package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Service interface {
	Submit(ctx context.Context, rev *Review) error
	List(ctx context.Context) ([]Review, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, rev *Review) error {
	if rev.Rating < 1 || rev.Rating > 5 {
		return ErrInvalidRating
	}

	err := s.repo.Create(ctx, rev)
	if err != nil {
		if errors.Is(err, ErrReviewExists) || errors.Is(err, ErrUnknownOrder) {
			return err
		}
		log.Error().Err(err).Str("order_number", rev.OrderNumber).Msg("service: failed to save review")
		return fmt.Errorf("service: failed to save review: %w", err)
	}

	log.Info().Str("order_number", rev.OrderNumber).Int("rating", rev.Rating).Msg("service: review saved")
	return nil
}

func (s *service) List(ctx context.Context) ([]Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list reviews")
		return nil, fmt.Errorf("service: failed to list reviews: %w", err)
	}

	return reviews, nil
}
