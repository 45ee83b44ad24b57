package models

import (
	"strings"
	"testing"
	"time"

	"tutordesk/internal/schedule"
)

func TestNewBaseIDHasNoDash(t *testing.T) {
	for i := 0; i < 20; i++ {
		id := NewBaseID()
		if strings.Contains(id, "-") {
			t.Fatalf("base id %q contains a dash", id)
		}
		key := schedule.ParseScheduleKey(id + "-3")
		if key.BaseID != id || key.Slot != 3 {
			t.Fatalf("slot id for %q parsed as %+v", id, key)
		}
	}
}

func TestClassSessionOccursOn(t *testing.T) {
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	class := ClassSession{
		ID:        "abc123-1",
		DayOfWeek: 1, // Monday
		StartDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}

	tests := []struct {
		name string
		day  schedule.Day
		want bool
	}{
		{"monday within bounds", schedule.NewDay(2025, time.March, 10), true},
		{"tuesday within bounds", schedule.NewDay(2025, time.March, 11), false},
		{"monday before start", schedule.NewDay(2025, time.February, 24), false},
		{"start day itself", schedule.NewDay(2025, time.March, 3), true},
		{"monday after end", schedule.NewDay(2025, time.July, 7), false},
		{"end day itself is monday", schedule.NewDay(2025, time.June, 30), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := class.OccursOn(tt.day); got != tt.want {
				t.Errorf("OccursOn(%s) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestClassSessionBaseID(t *testing.T) {
	class := ClassSession{ID: "abc123-2"}
	if got := class.BaseID(); got != "abc123" {
		t.Errorf("BaseID() = %q, want %q", got, "abc123")
	}
	base := ClassSession{ID: "abc123"}
	if got := base.BaseID(); got != "abc123" {
		t.Errorf("BaseID() = %q, want %q", got, "abc123")
	}
}
