package review_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaasia/ordering-service/internal/review"
)

type mockRepository struct {
	createFunc func(ctx context.Context, rev *review.Review) error
	listFunc   func(ctx context.Context) ([]review.Review, error)
}

func (m *mockRepository) Create(ctx context.Context, rev *review.Review) error {
	return m.createFunc(ctx, rev)
}

func (m *mockRepository) List(ctx context.Context) ([]review.Review, error) {
	return m.listFunc(ctx)
}

func TestService_Submit(t *testing.T) {
	tests := []struct {
		name      string
		rating    int
		createErr error
		wantErrIs error
	}{
		{name: "success", rating: 5},
		{name: "lowest_valid_rating", rating: 1},
		{name: "rating_zero", rating: 0, wantErrIs: review.ErrInvalidRating},
		{name: "rating_above_five", rating: 6, wantErrIs: review.ErrInvalidRating},
		{name: "duplicate", rating: 4, createErr: review.ErrReviewExists, wantErrIs: review.ErrReviewExists},
		{name: "unknown_order", rating: 4, createErr: review.ErrUnknownOrder, wantErrIs: review.ErrUnknownOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			repo := &mockRepository{
				createFunc: func(ctx context.Context, rev *review.Review) error {
					created = true
					return tt.createErr
				},
			}
			svc := review.NewService(repo)

			err := svc.Submit(context.Background(), &review.Review{
				OrderNumber: "AB12CD34",
				Name:        "Jan",
				Rating:      tt.rating,
			})

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				if tt.createErr == nil {
					assert.False(t, created, "invalid rating must not reach the repository")
				}
				return
			}
			require.NoError(t, err)
			assert.True(t, created)
		})
	}
}
