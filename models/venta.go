package models

import "time"

// Venta is a denormalized sales-log row written alongside each order line,
// used by the admin sales report.
type Venta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Fecha     time.Time `json:"fecha"`
}
