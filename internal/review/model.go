package review

import (
	"time"

	"github.com/gofrs/uuid"
)

type Review struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderNumber string    `json:"order_number" db:"order_number"`
	Name        string    `json:"name" db:"name"`
	Content     string    `json:"content" db:"content"`
	Rating      int       `json:"rating" db:"rating"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
