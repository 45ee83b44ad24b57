package models

import (
	"time"

	"gorm.io/gorm"
)

// LibraryItem is a reusable content-library entry (exercises, readings,
// games) teachers pull from when planning classes.
type LibraryItem struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	TeacherID string `gorm:"type:varchar(64);index" json:"teacher_id"`

	Title    string   `gorm:"type:varchar(255)" json:"title"`
	Category string   `gorm:"type:varchar(100);index" json:"category"`
	Body     string   `gorm:"type:text" json:"body"`
	Tags     []string `gorm:"serializer:json" json:"tags"`
	ImageURL string   `gorm:"type:varchar(500)" json:"image_url"`
}
