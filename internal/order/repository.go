package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/discount"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

type Repository interface {
	// Create persists the order. When a discount code is attached, the code is
	// consumed in the same transaction: either both writes land or neither.
	Create(ctx context.Context, o *Order) error
	GetByNumber(ctx context.Context, number string) (*Order, error)
	ListToday(ctx context.Context) ([]Order, error)
	UpdateFlags(ctx context.Context, number string, completed, cancelled bool) error
}

type postgresRepository struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewRepository(db *pgxpool.Pool, loc *time.Location) Repository {
	return &postgresRepository{db: db, loc: loc}
}

const orderColumns = `
	id, order_number, order_type, customer_name, phone, email, remark,
	pickup_time, delivery_time, street, house_number, postcode, city,
	payment_method, items, subtotal, total, tip, discount_code, discount_amount,
	is_completed, is_cancelled, created_at
`

func (r *postgresRepository) Create(ctx context.Context, o *Order) (err error) {
	if o.ID == uuid.Nil {
		genID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate order id: %w", genErr)
		}
		o.ID = genID
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("repository: failed to encode items for order %s: %w", o.OrderNumber, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_number", o.OrderNumber).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("order_number", o.OrderNumber).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	if o.DiscountCode != "" {
		consumeQuery := `
			UPDATE discount_codes
			SET is_used = TRUE
			WHERE code = $1 AND is_used = FALSE
			RETURNING amount
		`
		var amount float64
		err = tx.QueryRow(ctx, consumeQuery, o.DiscountCode).Scan(&amount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = discount.ErrCodeUnavailable
				return err
			}
			return fmt.Errorf("repository: failed to consume discount code %q: %w", o.DiscountCode, err)
		}
		o.DiscountAmount = amount
		o.Total = math.Round(math.Max(0, o.Total-amount)*100) / 100
	}

	o.CreatedAt = time.Now().UTC()

	insertQuery := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err = tx.Exec(ctx, insertQuery,
		o.ID,
		o.OrderNumber,
		string(o.Type),
		o.CustomerName,
		o.Phone,
		o.Email,
		o.Remark,
		o.PickupTime,
		o.DeliveryTime,
		o.Address.Street,
		o.Address.HouseNumber,
		o.Address.Postcode,
		o.Address.City,
		o.PaymentMethod,
		itemsJSON,
		o.Subtotal,
		o.Total,
		o.Tip,
		o.DiscountCode,
		o.DiscountAmount,
		o.IsCompleted,
		o.IsCancelled,
		o.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			err = ErrDuplicateOrderNumber
			return err
		}
		return fmt.Errorf("repository: failed to insert order %s: %w", o.OrderNumber, err)
	}

	return nil
}

func (r *postgresRepository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	o, err := r.scanOrder(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order %s: %w", number, err)
	}

	return o, nil
}

func (r *postgresRepository) ListToday(ctx context.Context) ([]Order, error) {
	// "Today" is a store-local day; created_at is stored in UTC.
	now := time.Now().In(r.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, dayStart.UTC(), dayStart.Add(24*time.Hour).UTC())
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query today's orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating today's orders: %w", err)
	}

	return orders, nil
}

func (r *postgresRepository) UpdateFlags(ctx context.Context, number string, completed, cancelled bool) error {
	query := `
		UPDATE orders
		SET is_completed = $1, is_cancelled = $2
		WHERE order_number = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, completed, cancelled, number)
	if err != nil {
		return fmt.Errorf("repository: failed to update order flags %s: %w", number, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var orderType string
	var itemsJSON []byte

	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&orderType,
		&o.CustomerName,
		&o.Phone,
		&o.Email,
		&o.Remark,
		&o.PickupTime,
		&o.DeliveryTime,
		&o.Address.Street,
		&o.Address.HouseNumber,
		&o.Address.Postcode,
		&o.Address.City,
		&o.PaymentMethod,
		&itemsJSON,
		&o.Subtotal,
		&o.Total,
		&o.Tip,
		&o.DiscountCode,
		&o.DiscountAmount,
		&o.IsCompleted,
		&o.IsCancelled,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Type = Type(orderType)
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items for order %s: %w", o.OrderNumber, err)
	}
	o.CreatedAt = o.CreatedAt.In(r.loc)

	return &o, nil
}
