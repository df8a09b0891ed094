package models

import "time"

type IntentStatus string

const (
	IntentStatusCreated   IntentStatus = "created"
	IntentStatusCaptured  IntentStatus = "captured"
	IntentStatusFinalized IntentStatus = "finalized"
)

// PaymentIntent is the server-held record of one checkout attempt: the
// quoted breakdown, the gateway references, and how far the attempt got.
// The client only ever carries the opaque ID.
type PaymentIntent struct {
	ID             string       `gorm:"primaryKey;size:36" json:"id"`
	UserID         uint         `gorm:"not null;index" json:"user_id"`
	CartID         uint         `gorm:"not null" json:"cart_id"`
	Subtotal       float64      `json:"subtotal"`
	Tax            float64      `json:"tax"`
	Shipping       float64      `json:"shipping"`
	Total          float64      `json:"total"`
	Currency       string       `gorm:"size:3" json:"currency"`
	Status         IntentStatus `gorm:"type:VARCHAR(20);default:'created'" json:"status"`
	GatewayOrderID string       `gorm:"size:100" json:"gateway_order_id"`
	CaptureID      string       `gorm:"size:100" json:"capture_id"`
	CapturedAmount float64      `json:"captured_amount"`
	OrderID        uint         `json:"order_id"`
	CreatedAt      time.Time    `json:"created_at"`
}
