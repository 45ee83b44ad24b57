package models

import (
	"time"

	"gorm.io/gorm"
)

// ChecklistItem is one entry of a class-plan checklist.
type ChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ClassPlan is the lesson plan for one class meeting, kept as a checklist the
// teacher ticks off during the class.
type ClassPlan struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ClassSessionID string    `gorm:"type:varchar(80);index" json:"class_session_id"`
	Date           time.Time `gorm:"index" json:"date"`

	Title string          `gorm:"type:varchar(255)" json:"title"`
	Items []ChecklistItem `gorm:"serializer:json" json:"items"`
}

// Note is a free-form note attached to a class meeting.
type Note struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ClassSessionID string    `gorm:"type:varchar(80);index" json:"class_session_id"`
	Date           time.Time `gorm:"index" json:"date"`

	Body string `gorm:"type:text" json:"body"`
}
