package services

import (
	"testing"
	"time"

	"tutordesk/internal/models"
	"tutordesk/internal/schedule"
)

func TestMatchExistingPayment(t *testing.T) {
	day := schedule.NewDay(2025, time.April, 10)
	recorded := []models.Payment{
		{
			ID:             "pay-1",
			UserID:         "ana@example.com",
			ClassSessionID: "abc123",
			DueDate:        day.Time(),
		},
		{
			ID:             "pay-2",
			UserID:         "ana@example.com",
			ClassSessionID: "other1",
			DueDate:        day.Time(),
		},
	}

	tests := []struct {
		name    string
		classID string
		day     schedule.Day
		wantID  string
	}{
		{name: "exact class id", classID: "abc123", day: day, wantID: "pay-1"},
		{name: "slot variant collapses to base", classID: "abc123-2", day: day, wantID: "pay-1"},
		{name: "different class", classID: "zzz999", day: day, wantID: ""},
		{name: "different day", classID: "abc123", day: day.AddDays(1), wantID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchExistingPayment(recorded, tt.classID, tt.day)
			switch {
			case tt.wantID == "" && got != nil:
				t.Errorf("matched %s; want no match", got.ID)
			case tt.wantID != "" && got == nil:
				t.Errorf("no match; want %s", tt.wantID)
			case tt.wantID != "" && got.ID != tt.wantID:
				t.Errorf("matched %s; want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestMatchExistingPaymentDayWindow(t *testing.T) {
	// Recorded due dates may carry a time of day from older clients; matching
	// still happens at day granularity.
	day := schedule.NewDay(2025, time.April, 10)
	recorded := []models.Payment{
		{
			ID:             "pay-3",
			UserID:         "ben@example.com",
			ClassSessionID: "abc123",
			DueDate:        time.Date(2025, time.April, 10, 18, 30, 0, 0, time.UTC),
		},
	}

	got := MatchExistingPayment(recorded, "abc123", day)
	if got == nil || got.ID != "pay-3" {
		t.Fatalf("got %v; want pay-3 matched at day granularity", got)
	}
}
