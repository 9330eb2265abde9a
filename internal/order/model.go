package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type Type string

const (
	TypePickup   Type = "pickup"
	TypeDelivery Type = "delivery"
)

func (t Type) String() string {
	return string(t)
}

// ParseType resolves both the English and the Dutch spelling of a channel to
// the same variant.
func ParseType(raw string) (Type, bool) {
	switch raw {
	case "pickup", "afhalen":
		return TypePickup, true
	case "delivery", "bezorgen":
		return TypeDelivery, true
	default:
		return "", false
	}
}

const PaymentMethodOnline = "online"

// Line is one position of the items mapping, keyed by item name.
type Line struct {
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

type Address struct {
	Street      string `json:"street" db:"street"`
	HouseNumber string `json:"house_number" db:"house_number"`
	Postcode    string `json:"postcode" db:"postcode"`
	City        string `json:"city" db:"city"`
}

type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrderNumber    string          `json:"order_number" db:"order_number"`
	Type           Type            `json:"order_type" db:"order_type"`
	CustomerName   string          `json:"customer_name" db:"customer_name"`
	Phone          string          `json:"phone" db:"phone"`
	Email          string          `json:"email,omitempty" db:"email"`
	Remark         string          `json:"remark,omitempty" db:"remark"`
	PickupTime     string          `json:"pickup_time,omitempty" db:"pickup_time"`
	DeliveryTime   string          `json:"delivery_time,omitempty" db:"delivery_time"`
	Address        Address         `json:"address"`
	PaymentMethod  string          `json:"payment_method" db:"payment_method"`
	Items          map[string]Line `json:"items" db:"items"`
	Subtotal       float64         `json:"subtotal" db:"subtotal"`
	Total          float64         `json:"total" db:"total"`
	Tip            float64         `json:"tip" db:"tip"`
	DiscountCode   string          `json:"discount_code,omitempty" db:"discount_code"`
	DiscountAmount float64         `json:"discount_amount" db:"discount_amount"`
	IsCompleted    bool            `json:"is_completed" db:"is_completed"`
	IsCancelled    bool            `json:"is_cancelled" db:"is_cancelled"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// Submission is the canonical order request after the HTTP layer has collapsed
// every accepted field-name synonym. All validation runs against this shape.
type Submission struct {
	OrderType     string
	CustomerName  string
	Phone         string
	Email         string
	Remark        string
	RequestedTime string
	Address       Address
	PaymentMethod string
	Items         map[string]Line
	Total         *float64
	Tip           float64
	DiscountCode  string
}

// StatusPatch carries the staff status update; nil fields are left untouched.
type StatusPatch struct {
	IsCompleted *bool `json:"is_completed,omitempty"`
	IsCancelled *bool `json:"is_cancelled,omitempty"`
}
