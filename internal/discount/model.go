package discount

import "time"

// MinimumOrderTotal is the subtotal a customer must reach before a code may be
// redeemed.
const MinimumOrderTotal = 20.0

type Code struct {
	Code          string    `json:"code" db:"code"`
	Percentage    float64   `json:"percentage" db:"percentage"`
	Amount        float64   `json:"amount" db:"amount"`
	IsUsed        bool      `json:"is_used" db:"is_used"`
	CustomerEmail string    `json:"customer_email,omitempty" db:"customer_email"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
