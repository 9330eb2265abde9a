package order

import (
	"crypto/rand"
	"fmt"
)

const (
	orderNumberLength   = 8
	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewOrderNumber returns a short human-facing order code. 36^8 values make a
// collision unlikely, and the unique index on order_number plus a retry in the
// service catch the rest.
func NewOrderNumber() (string, error) {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return string(buf), nil
}
