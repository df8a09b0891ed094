package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:100;not null;index:ix_products_name" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Category    string  `gorm:"size:50;not null;index:ix_products_category" json:"category"`
	ImageURL    string  `gorm:"size:200" json:"image_url"`
	Stock       int     `gorm:"default:0" json:"stock"`
	Featured    bool    `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
