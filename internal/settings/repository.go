package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSettingNotFound = errors.New("setting not found")

// Repository is the single source of truth for store configuration. Admission
// decisions always read through it so admin changes take effect on the next
// order (no in-process cache).
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM settings WHERE key = $1`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("repository: failed to select setting %q: %w", key, err)
	}

	return value, nil
}

func (r *postgresRepository) GetAll(ctx context.Context) (map[string]string, error) {
	query := `SELECT key, value FROM settings`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("repository: failed to scan setting: %w", err)
		}
		values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating settings: %w", err)
	}

	return values, nil
}

func (r *postgresRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()
	`

	_, err := r.db.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("repository: failed to upsert setting %q: %w", key, err)
	}

	return nil
}
