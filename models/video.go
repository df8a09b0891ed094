package models

import "time"

// Video is a promotional clip shown on the landing page, either an uploaded
// file (FilePath) or an embedded URL.
type Video struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100" json:"category"`
	URL         string    `gorm:"size:500" json:"url"`
	FilePath    string    `gorm:"size:500" json:"file_path"`
	IsFeatured  bool      `gorm:"default:false" json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}
