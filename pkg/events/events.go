package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Routing keys published on the shared topic exchange.
const (
	RKUserCreated    = "user.created"
	RKUserUpdated    = "user.updated"
	RKOrderCreated   = "order.created"
	RKOrderCancelled = "order.cancelled"
)

// User is the snapshot carried by user.created / user.updated events.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderItem mirrors one line of an order payload.
type OrderItem struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// Order is the snapshot carried by order.created / order.cancelled events.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

func Unmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
