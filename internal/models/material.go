package models

import (
	"time"

	"gorm.io/gorm"
)

// Material holds the teaching material attached to one class meeting.
type Material struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ClassSessionID string    `gorm:"type:varchar(80);index" json:"class_session_id"`
	Date           time.Time `gorm:"index" json:"date"`

	Title     string   `gorm:"type:varchar(255)" json:"title"`
	Body      string   `gorm:"type:text" json:"body"`
	ImageURLs []string `gorm:"serializer:json" json:"image_urls"`
}

// Homework holds the homework assigned at one class meeting.
type Homework struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ClassSessionID string    `gorm:"type:varchar(80);index" json:"class_session_id"`
	Date           time.Time `gorm:"index" json:"date"`
	DueDate        time.Time `json:"due_date"`

	Title     string   `gorm:"type:varchar(255)" json:"title"`
	Body      string   `gorm:"type:text" json:"body"`
	ImageURLs []string `gorm:"serializer:json" json:"image_urls"`
	Done      bool     `gorm:"default:false" json:"done"`
}
