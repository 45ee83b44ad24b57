package models

import (
	"time"

	"gorm.io/gorm"

	"tutordesk/internal/schedule"
)

type PaymentGateway string

const (
	PaymentGatewayMidtrans PaymentGateway = "midtrans"
	PaymentGatewayManual   PaymentGateway = "manual"
)

// Payment records a completed payment for one obligation. Exactly one record
// exists per (student email, base class id, due day); creation goes through
// an existence pre-check so retries return the same record.
type Payment struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the paying student's email.
	UserID string `gorm:"type:varchar(255);index" json:"user_id"`
	// ClassSessionID stores the class base id, collapsing slot variants.
	ClassSessionID string `gorm:"type:varchar(80);index" json:"class_session_id"`

	DueDate     time.Time `gorm:"index" json:"due_date"`
	CompletedAt time.Time `json:"completed_at"`

	Amount   float64        `gorm:"type:decimal(15,2)" json:"amount"`
	Currency string         `gorm:"type:varchar(10)" json:"currency"`
	Gateway  PaymentGateway `gorm:"type:varchar(50);default:'manual'" json:"gateway"`
}

// Record maps the row into the shape the reconciler consumes.
func (p Payment) Record() schedule.PaymentRecord {
	return schedule.PaymentRecord{
		ID:        p.ID,
		UserEmail: p.UserID,
		ClassID:   p.ClassSessionID,
		DueDate:   schedule.DayOf(p.DueDate),
	}
}
