package discount

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrCodeUnavailable = errors.New("invalid or used discount code")
	ErrCodeExists      = errors.New("discount code already exists")
)

type Repository interface {
	Create(ctx context.Context, code *Code) error
	GetByCode(ctx context.Context, code string) (*Code, error)
	// Consume atomically flips is_used and returns the stored discount amount.
	// Two concurrent calls for the same code cannot both succeed: the flip is a
	// single conditional UPDATE.
	Consume(ctx context.Context, code string) (float64, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, code *Code) error {
	query := `
		INSERT INTO discount_codes (code, percentage, amount, customer_email, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, code.Code, code.Percentage, code.Amount, code.CustomerEmail).
		Scan(&code.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrCodeExists
		}
		return fmt.Errorf("repository: failed to insert discount code %q: %w", code.Code, err)
	}

	return nil
}

func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*Code, error) {
	query := `
		SELECT code, percentage, amount, is_used, customer_email, created_at
		FROM discount_codes
		WHERE code = $1
	`

	var c Code
	err := r.db.QueryRow(ctx, query, code).Scan(
		&c.Code,
		&c.Percentage,
		&c.Amount,
		&c.IsUsed,
		&c.CustomerEmail,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCodeUnavailable
		}
		return nil, fmt.Errorf("repository: failed to select discount code %q: %w", code, err)
	}

	return &c, nil
}

func (r *postgresRepository) Consume(ctx context.Context, code string) (float64, error) {
	query := `
		UPDATE discount_codes
		SET is_used = TRUE
		WHERE code = $1 AND is_used = FALSE
		RETURNING amount
	`

	var amount float64
	err := r.db.QueryRow(ctx, query, code).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrCodeUnavailable
		}
		return 0, fmt.Errorf("repository: failed to consume discount code %q: %w", code, err)
	}

	return amount, nil
}
