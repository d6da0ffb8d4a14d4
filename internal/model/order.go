package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is created once when an order event is first validated and is
// immutable afterwards. The id comes from the producer, not from us.
type Order struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	Product   string          `gorm:"size:255;not null" json:"product"`
	Total     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"total"`
	Currency  string          `gorm:"size:8;not null" json:"currency"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Order) TableName() string { return "order_event" }
