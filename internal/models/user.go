package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleTeacher UserRole = "teacher"
	UserRoleStudent UserRole = "student"
)

// User represents a teacher or student in the system
type User struct {
	ID        string         `gorm:"primarykey;type:varchar(64)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name  string   `gorm:"type:varchar(255)" json:"name"`
	Phone string   `gorm:"type:varchar(50)" json:"phone"`
	Email string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Role  UserRole `gorm:"type:varchar(20);default:'student'" json:"role"`

	// Birthdate is stored as "MM-DD"; the year is not collected.
	Birthdate string `gorm:"type:varchar(5)" json:"birthdate,omitempty"`

	// Payment defaults pre-fill the payment config when the student is
	// enrolled in a new class.
	DefaultAmount   float64 `gorm:"type:decimal(15,2)" json:"default_amount"`
	DefaultCurrency string  `gorm:"type:varchar(10)" json:"default_currency"`
}

// BirthdayOn reports whether the user's birthday falls on the given month and day.
func (u User) BirthdayOn(month time.Month, day int) bool {
	if len(u.Birthdate) != 5 {
		return false
	}
	t, err := time.Parse("01-02", u.Birthdate)
	if err != nil {
		return false
	}
	return t.Month() == month && t.Day() == day
}
