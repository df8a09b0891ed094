package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is immutable after creation except for status transitions. Total is
// computed once at finalize time and frozen.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	Total           float64     `gorm:"not null" json:"total"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentID       string      `gorm:"size:100" json:"payment_id"`
	PayerID         string      `gorm:"size:100" json:"payer_id"`
	ShippingAddress string      `gorm:"type:text" json:"shipping_address"`
	ShippingName    string      `gorm:"size:100" json:"shipping_name"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItem.Price is the per-unit price copied from the Product at order
// time. Later catalog price changes never touch it.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
}
