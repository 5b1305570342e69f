package domain

import "time"

const (
	StatusCreated   = "created"
	StatusCancelled = "cancelled"
)

type Item struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

type Order struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"`
	Items     []Item    `gorm:"serializer:json" json:"items"`
	Total     float64   `json:"total"`
	Status    string    `gorm:"index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
