package schedule

import (
	"testing"
	"time"
)

func weeklyConfig(interval int, start Day) PaymentConfig {
	return PaymentConfig{
		Type:           PaymentTypeWeekly,
		WeeklyInterval: interval,
		Amount:         50,
		Currency:       "EUR",
		StartDate:      start,
	}
}

func monthlyConfig(option MonthlyOption, start Day) PaymentConfig {
	return PaymentConfig{
		Type:          PaymentTypeMonthly,
		MonthlyOption: option,
		Amount:        120,
		Currency:      "EUR",
		StartDate:     start,
	}
}

func TestWeeklyDueDatesMarch(t *testing.T) {
	// Weekly interval 1 starting Monday 2025-01-06: March 2025 has five Mondays.
	config := weeklyConfig(1, NewDay(2025, time.January, 6))
	got := DueDatesInMonth(config, Day{}, MonthKey{2025, time.March})

	want := []Day{
		NewDay(2025, time.March, 3),
		NewDay(2025, time.March, 10),
		NewDay(2025, time.March, 17),
		NewDay(2025, time.March, 24),
		NewDay(2025, time.March, 31),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d due dates (%v); want %d", len(got), got, len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("due[%d] = %s; want %s", i, got[i], want[i])
		}
	}
}

func TestWeeklyIntervalSpacing(t *testing.T) {
	start := NewDay(2025, time.January, 6)
	for _, interval := range []int{1, 2, 3, 4} {
		config := weeklyConfig(interval, start)
		for _, month := range []MonthKey{{2025, time.February}, {2025, time.June}, {2026, time.January}} {
			dates := DueDatesInMonth(config, Day{}, month)
			for i, d := range dates {
				if !month.Contains(d) {
					t.Errorf("interval %d: %s outside %s", interval, d, month)
				}
				if d.Before(start) {
					t.Errorf("interval %d: %s before start %s", interval, d, start)
				}
				if i > 0 {
					gap := int(dates[i].Time().Sub(dates[i-1].Time()).Hours() / 24)
					if gap != interval*7 {
						t.Errorf("interval %d: gap between %s and %s = %d days; want %d",
							interval, dates[i-1], dates[i], gap, interval*7)
					}
				}
			}
		}
	}
}

func TestMonthlyDueDates(t *testing.T) {
	start := NewDay(2024, time.June, 1)
	tests := []struct {
		name    string
		option  MonthlyOption
		month   MonthKey
		wantDay int
	}{
		{name: "first of month", option: MonthlyFirst, month: MonthKey{2025, time.March}, wantDay: 1},
		{name: "fifteenth", option: MonthlyFifteen, month: MonthKey{2025, time.March}, wantDay: 15},
		{name: "last of march", option: MonthlyLast, month: MonthKey{2025, time.March}, wantDay: 31},
		{name: "last of february", option: MonthlyLast, month: MonthKey{2025, time.February}, wantDay: 28},
		{name: "last of leap february", option: MonthlyLast, month: MonthKey{2028, time.February}, wantDay: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueDatesInMonth(monthlyConfig(tt.option, start), Day{}, tt.month)
			if len(got) != 1 {
				t.Fatalf("got %d due dates (%v); want exactly 1", len(got), got)
			}
			if got[0].DayOfMonth() != tt.wantDay {
				t.Errorf("due date = %s; want day %d", got[0], tt.wantDay)
			}
		})
	}
}

func TestMonthlyBeforeStart(t *testing.T) {
	// Start 2025-02-01 with the fifteen rule: due on 2025-02-15, nothing in January.
	config := monthlyConfig(MonthlyFifteen, NewDay(2025, time.February, 1))

	feb := DueDatesInMonth(config, Day{}, MonthKey{2025, time.February})
	if len(feb) != 1 || !feb[0].Equal(NewDay(2025, time.February, 15)) {
		t.Errorf("February dues = %v; want [2025-02-15]", feb)
	}
	if !DueOnDay(config, Day{}, NewDay(2025, time.February, 15)) {
		t.Error("2025-02-15 should be due")
	}

	if jan := DueDatesInMonth(config, Day{}, MonthKey{2025, time.January}); len(jan) != 0 {
		t.Errorf("January dues = %v; want none before start", jan)
	}
	if DueOnDay(config, Day{}, NewDay(2025, time.January, 15)) {
		t.Error("2025-01-15 should not be due before start")
	}
}

func TestClassEndBounds(t *testing.T) {
	config := weeklyConfig(1, NewDay(2025, time.January, 6))
	end := NewDay(2025, time.March, 15)

	// Class ended mid-month: only due dates up to the end date remain.
	got := DueDatesInMonth(config, end, MonthKey{2025, time.March})
	if len(got) != 2 {
		t.Fatalf("got %v; want the two Mondays on or before %s", got, end)
	}
	for _, d := range got {
		if d.After(end) {
			t.Errorf("due date %s after class end %s", d, end)
		}
	}

	// Class ended before the month began: nothing.
	if got := DueDatesInMonth(config, end, MonthKey{2025, time.April}); len(got) != 0 {
		t.Errorf("April dues = %v; want none after class end", got)
	}
}

func TestMonthBeforeConfigStart(t *testing.T) {
	config := weeklyConfig(2, NewDay(2025, time.June, 2))
	if got := DueDatesInMonth(config, Day{}, MonthKey{2025, time.May}); len(got) != 0 {
		t.Errorf("dues before start month = %v; want none", got)
	}
}

func TestInvalidConfigs(t *testing.T) {
	if got := DueDatesInMonth(PaymentConfig{}, Day{}, MonthKey{2025, time.March}); got != nil {
		t.Errorf("empty config dues = %v; want nil", got)
	}
	noStart := PaymentConfig{Type: PaymentTypeWeekly, WeeklyInterval: 1}
	if got := DueDatesInMonth(noStart, Day{}, MonthKey{2025, time.March}); got != nil {
		t.Errorf("config without start dues = %v; want nil", got)
	}
	badOption := PaymentConfig{Type: PaymentTypeMonthly, StartDate: NewDay(2025, time.January, 1)}
	if got := DueDatesInMonth(badOption, Day{}, MonthKey{2025, time.March}); got != nil {
		t.Errorf("monthly config without option dues = %v; want nil", got)
	}
}
