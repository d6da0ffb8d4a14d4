package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an append-only ledger entry. The id is minted by the engine
// at persistence time; the wire payload never carries one, so producer
// retries cannot collide on the primary key.
type Payment struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`
	OrderID   string          `gorm:"size:64;not null;index" json:"order_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payment_event" }
