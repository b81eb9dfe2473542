package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypePurchaseCompleted = "PURCHASE_COMPLETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// PurchaseCompletedEvent published when a checkout is saved
type PurchaseCompletedEvent struct {
	BaseEvent
	PurchaseID    int64           `json:"purchase_id"`
	UserPhoneNumb string          `json:"user_phone_numb"`
	ProductIDs    []int64         `json:"product_ids"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	RegisterDate  string          `json:"register_date"`
}
