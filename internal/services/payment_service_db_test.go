package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tutordesk/internal/models"
	"tutordesk/internal/schedule"
)

func newPaymentTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if migrate {
		if err := db.AutoMigrate(&models.Payment{}); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}

func TestRecordPaymentCycle(t *testing.T) {
	db := newPaymentTestDB(t, true)
	s := NewPaymentService(db, nil, nil)
	ctx := context.Background()

	input := RecordPaymentInput{
		UserEmail:      "ana@example.com",
		ClassSessionID: "abc123-1",
		DueDate:        schedule.NewDay(2025, time.April, 10),
		Amount:         250000,
		Currency:       "IDR",
	}

	first, created, err := s.RecordPayment(ctx, input)
	if err != nil {
		t.Fatalf("first RecordPayment: %v", err)
	}
	if !created {
		t.Fatal("first RecordPayment reported an existing record")
	}
	if first.ClassSessionID != "abc123" {
		t.Errorf("stored class id = %q; want base id %q", first.ClassSessionID, "abc123")
	}

	// Recording the same obligation again, through a different slot variant,
	// must return the existing row untouched.
	input.ClassSessionID = "abc123-2"
	second, created, err := s.RecordPayment(ctx, input)
	if err != nil {
		t.Fatalf("second RecordPayment: %v", err)
	}
	if created {
		t.Fatal("second RecordPayment created a duplicate row")
	}
	if second.ID != first.ID {
		t.Errorf("second RecordPayment returned %s; want existing %s", second.ID, first.ID)
	}

	if err := s.DeletePayment(ctx, first.ID); err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}
	if err := s.DeletePayment(ctx, first.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("deleting an already deleted payment = %v; want record not found", err)
	}

	// After the delete the obligation is unpaid again; a new record must be
	// created rather than the removed one resurrected.
	third, created, err := s.RecordPayment(ctx, input)
	if err != nil {
		t.Fatalf("third RecordPayment: %v", err)
	}
	if !created {
		t.Fatal("RecordPayment after delete reported an existing record")
	}
	if third.ID == first.ID {
		t.Error("RecordPayment after delete reused the deleted row")
	}
}

func TestRecordPaymentDistinctDays(t *testing.T) {
	db := newPaymentTestDB(t, true)
	s := NewPaymentService(db, nil, nil)
	ctx := context.Background()

	input := RecordPaymentInput{
		UserEmail:      "ben@example.com",
		ClassSessionID: "abc123",
		DueDate:        schedule.NewDay(2025, time.April, 10),
		Amount:         250000,
		Currency:       "IDR",
	}
	if _, created, err := s.RecordPayment(ctx, input); err != nil || !created {
		t.Fatalf("first RecordPayment = created %v, err %v; want a new record", created, err)
	}

	input.DueDate = schedule.NewDay(2025, time.April, 17)
	if _, created, err := s.RecordPayment(ctx, input); err != nil || !created {
		t.Fatalf("next-week RecordPayment = created %v, err %v; want a new record", created, err)
	}
}

func TestInitiateOnlinePaymentAbortsWhenLookupFails(t *testing.T) {
	// The payments table is missing, so the existing-payment check fails. The
	// initiation must surface that error instead of treating the obligation as
	// unpaid and opening a checkout.
	db := newPaymentTestDB(t, false)
	s := NewPaymentService(db, nil, NewMidtransService())

	input := RecordPaymentInput{
		UserEmail:      "ana@example.com",
		ClassSessionID: "abc123",
		DueDate:        schedule.NewDay(2025, time.April, 10),
		Amount:         250000,
		Currency:       "IDR",
	}
	student := &models.User{Email: "ana@example.com", Name: "Ana"}

	_, err := s.InitiateOnlinePayment(context.Background(), input, student, "Maths", "https://example.com/done", false)
	if err == nil {
		t.Fatal("InitiateOnlinePayment succeeded with a failing payment lookup")
	}
	if !strings.Contains(err.Error(), "failed to check existing payments") {
		t.Errorf("error = %v; want the payment lookup failure surfaced", err)
	}
}
