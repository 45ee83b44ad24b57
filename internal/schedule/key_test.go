package schedule

import (
	"testing"
	"time"
)

func TestParseScheduleKey(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want ScheduleKey
	}{
		{name: "bare base id", id: "abc123", want: ScheduleKey{BaseID: "abc123"}},
		{name: "slot variant", id: "abc123-2", want: ScheduleKey{BaseID: "abc123", Slot: 2}},
		{name: "first extra slot", id: "abc123-1", want: ScheduleKey{BaseID: "abc123", Slot: 1}},
		{name: "non numeric suffix", id: "abc123-xyz", want: ScheduleKey{BaseID: "abc123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseScheduleKey(tt.id)
			if got != tt.want {
				t.Errorf("ParseScheduleKey(%q) = %+v; want %+v", tt.id, got, tt.want)
			}
		})
	}
}

func TestBaseID(t *testing.T) {
	if got := BaseID("abc123-2"); got != "abc123" {
		t.Errorf("BaseID(abc123-2) = %q; want abc123", got)
	}
	if got := BaseID("abc123"); got != "abc123" {
		t.Errorf("BaseID(abc123) = %q; want abc123", got)
	}
}

func TestScheduleKeyString(t *testing.T) {
	if got := (ScheduleKey{BaseID: "k1"}).String(); got != "k1" {
		t.Errorf("slot 0 string = %q; want k1", got)
	}
	if got := (ScheduleKey{BaseID: "k1", Slot: 3}).String(); got != "k1-3" {
		t.Errorf("slot 3 string = %q; want k1-3", got)
	}
}

func TestMonthKey(t *testing.T) {
	m, err := ParseMonthKey("2025-03")
	if err != nil {
		t.Fatalf("ParseMonthKey: %v", err)
	}
	if m.Year != 2025 || m.Month != time.March {
		t.Fatalf("ParseMonthKey = %+v", m)
	}
	if m.String() != "2025-03" {
		t.Errorf("String() = %q", m.String())
	}
	if got := m.First().String(); got != "2025-03-01" {
		t.Errorf("First() = %s", got)
	}
	if got := m.Last().String(); got != "2025-03-31" {
		t.Errorf("Last() = %s", got)
	}
	if got := m.Add(-1); got != (MonthKey{2025, time.February}) {
		t.Errorf("Add(-1) = %v", got)
	}
	if got := m.Add(10); got != (MonthKey{2026, time.January}) {
		t.Errorf("Add(10) = %v", got)
	}

	if _, err := ParseMonthKey("garbage"); err == nil {
		t.Error("expected error for invalid month key")
	}
}

func TestMonthKeyWithinWindow(t *testing.T) {
	viewed := MonthKey{2025, time.March}
	tests := []struct {
		month MonthKey
		want  bool
	}{
		{MonthKey{2025, time.February}, true},
		{MonthKey{2025, time.March}, true},
		{MonthKey{2025, time.April}, true},
		{MonthKey{2025, time.May}, false},
		{MonthKey{2024, time.December}, false},
	}
	for _, tt := range tests {
		if got := tt.month.WithinWindow(viewed, 1); got != tt.want {
			t.Errorf("%v within window of %v = %v; want %v", tt.month, viewed, got, tt.want)
		}
	}
}

func TestDayTruncation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	stamp := time.Date(2025, time.April, 10, 23, 45, 12, 0, loc)
	d := DayOf(stamp)
	if d.String() != "2025-04-10" {
		t.Errorf("DayOf = %s; want 2025-04-10", d)
	}
	if !SameDay(stamp, time.Date(2025, time.April, 10, 1, 0, 0, 0, loc)) {
		t.Error("SameDay should hold for timestamps on the same calendar day")
	}
	if SameDay(stamp, stamp.AddDate(0, 0, 1)) {
		t.Error("SameDay should not hold across days")
	}
}

func TestDayJSON(t *testing.T) {
	d, err := ParseDay("2025-01-06")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(b) != `"2025-01-06"` {
		t.Errorf("MarshalJSON = %s", b)
	}

	var parsed Day
	if err := parsed.UnmarshalJSON([]byte(`"2025-01-06T15:04:05Z"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !parsed.Equal(d) {
		t.Errorf("UnmarshalJSON = %s; want %s", parsed, d)
	}
}
