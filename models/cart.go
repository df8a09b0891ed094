package models

import (
	"time"

	"gorm.io/gorm"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartItem holds no price fields: cart pricing is always recomputed from the
// live Product so a pre-purchase cart tracks catalog price changes.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:ux_cart_items_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:ux_cart_items_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// MigrateCartIndexes creates the partial unique index that limits each user
// to a single active cart. GORM tags cannot express a WHERE clause, so it is
// issued directly; both postgres and sqlite accept the syntax.
func MigrateCartIndexes(db *gorm.DB) error {
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_user_active ON carts (user_id) WHERE is_active",
	).Error
}
