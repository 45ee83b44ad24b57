package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutordesk/internal/schedule"
)

// ClassSession is one schedule-slot of a class. A class taught on several
// weekdays is stored as one row per slot; all rows share the same base id and
// the row id encodes the slot (see schedule.ScheduleKey). Payment identity is
// always the base id, so a multi-slot class is charged once.
type ClassSession struct {
	ID        string         `gorm:"primarykey;type:varchar(80)" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Title     string `gorm:"type:varchar(255)" json:"title"`
	TeacherID string `gorm:"type:varchar(64);index" json:"teacher_id"`

	DayOfWeek   int    `json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime   string `gorm:"type:varchar(5)" json:"start_time"` // "HH:MM"
	DurationMin int    `gorm:"default:60" json:"duration_min"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	PaymentType      schedule.PaymentType   `gorm:"type:varchar(20)" json:"payment_type"`
	WeeklyInterval   int                    `gorm:"default:1" json:"weekly_interval"`
	MonthlyOption    schedule.MonthlyOption `gorm:"type:varchar(20)" json:"monthly_option"`
	PaymentAmount    float64                `gorm:"type:decimal(15,2)" json:"payment_amount"`
	PaymentCurrency  string                 `gorm:"type:varchar(10)" json:"payment_currency"`
	PaymentStartDate time.Time              `json:"payment_start_date"`

	StudentEmails []string `gorm:"serializer:json" json:"student_emails"`
}

// NewBaseID generates a class base id. Base ids must not contain a dash, so
// slot-variant ids stay parseable.
func NewBaseID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Key returns the parsed schedule key of this row.
func (c ClassSession) Key() schedule.ScheduleKey {
	return schedule.ParseScheduleKey(c.ID)
}

// BaseID returns the payment identity shared by all slot variants.
func (c ClassSession) BaseID() string {
	return schedule.BaseID(c.ID)
}

// End returns the class end date at day granularity, or the zero Day for
// open-ended classes.
func (c ClassSession) End() schedule.Day {
	if c.EndDate == nil {
		return schedule.Day{}
	}
	return schedule.DayOf(*c.EndDate)
}

// PaymentConfig normalizes the stored payment columns into the schedule
// config type.
func (c ClassSession) PaymentConfig() schedule.PaymentConfig {
	config := schedule.PaymentConfig{
		Type:           c.PaymentType,
		WeeklyInterval: c.WeeklyInterval,
		MonthlyOption:  c.MonthlyOption,
		Amount:         c.PaymentAmount,
		Currency:       c.PaymentCurrency,
	}
	if !c.PaymentStartDate.IsZero() {
		config.StartDate = schedule.DayOf(c.PaymentStartDate)
	}
	return config
}

// ScheduleView maps the row into the shape the schedule package evaluates.
func (c ClassSession) ScheduleView() schedule.Class {
	return schedule.Class{
		ID:            c.ID,
		EndDate:       c.End(),
		Config:        c.PaymentConfig(),
		StudentEmails: c.StudentEmails,
	}
}

// OccursOn reports whether this slot meets on the given day: the weekday
// matches and the day is within the class start/end bounds.
func (c ClassSession) OccursOn(d schedule.Day) bool {
	if int(d.Weekday()) != c.DayOfWeek {
		return false
	}
	if !c.StartDate.IsZero() && d.Before(schedule.DayOf(c.StartDate)) {
		return false
	}
	if end := c.End(); !end.IsZero() && d.After(end) {
		return false
	}
	return true
}
