package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrReviewExists = errors.New("review already exists for this order")
	ErrUnknownOrder = errors.New("review references an unknown order")
)

type Repository interface {
	Create(ctx context.Context, rev *Review) error
	List(ctx context.Context) ([]Review, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, rev *Review) error {
	if rev.ID == uuid.Nil {
		genID, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate review id: %w", err)
		}
		rev.ID = genID
	}

	query := `
		INSERT INTO reviews (id, order_number, name, content, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, rev.ID, rev.OrderNumber, rev.Name, rev.Content, rev.Rating).
		Scan(&rev.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return ErrReviewExists
			case pgerrcode.ForeignKeyViolation:
				return ErrUnknownOrder
			}
		}
		return fmt.Errorf("repository: failed to insert review for order %s: %w", rev.OrderNumber, err)
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Review, error) {
	query := `
		SELECT id, order_number, name, content, rating, created_at
		FROM reviews
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var rev Review
		err := rows.Scan(&rev.ID, &rev.OrderNumber, &rev.Name, &rev.Content, &rev.Rating, &rev.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating reviews: %w", err)
	}

	return reviews, nil
}
