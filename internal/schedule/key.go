package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScheduleKey identifies one schedule-slot of a class. A class taught on several
// weekdays is stored as one row per slot, all sharing the same BaseID. Slot 0 is
// rendered as the bare base id, later slots as "base-N". Base ids never contain
// a dash, so the first dash always separates base from slot.
type ScheduleKey struct {
	BaseID string
	Slot   int
}

// ParseScheduleKey parses a class session id into its key parts.
// "abc123-2" -> {abc123, 2}, "abc123" -> {abc123, 0}.
func ParseScheduleKey(id string) ScheduleKey {
	base, suffix, found := strings.Cut(id, "-")
	if !found {
		return ScheduleKey{BaseID: id}
	}
	slot, err := strconv.Atoi(suffix)
	if err != nil || slot < 0 {
		return ScheduleKey{BaseID: base}
	}
	return ScheduleKey{BaseID: base, Slot: slot}
}

// BaseID returns the schedule-configuration identity shared by all slot
// variants of a class id.
func BaseID(id string) string {
	return ParseScheduleKey(id).BaseID
}

func (k ScheduleKey) String() string {
	if k.Slot == 0 {
		return k.BaseID
	}
	return fmt.Sprintf("%s-%d", k.BaseID, k.Slot)
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses a "YYYY-MM" month key.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First returns the first day of the month.
func (m MonthKey) First() Day {
	return Day{time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)}
}

// Last returns the last day of the month.
func (m MonthKey) Last() Day {
	return Day{time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}

// Add returns the month n months after m (n may be negative).
func (m MonthKey) Add(n int) MonthKey {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether d falls within the month.
func (m MonthKey) Contains(d Day) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

// Before reports whether m is strictly before other.
func (m MonthKey) Before(other MonthKey) bool {
	return m.Year < other.Year || (m.Year == other.Year && m.Month < other.Month)
}

// WithinWindow reports whether m is within n months of other in either
// direction. The calendar view uses this to limit due computation to the
// months around the one being displayed.
func (m MonthKey) WithinWindow(other MonthKey, n int) bool {
	diff := (m.Year-other.Year)*12 + int(m.Month) - int(other.Month)
	if diff < 0 {
		diff = -diff
	}
	return diff <= n
}

// Day is a day-granularity date. All timestamps are truncated to UTC midnight
// at the ingestion boundary so due-date comparisons never depend on the time
// of day or on how the source represented the date.
type Day struct {
	t time.Time
}

// DayOf truncates t to its calendar day.
func DayOf(t time.Time) Day {
	return Day{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// NewDay builds a Day from its parts.
func NewDay(year int, month time.Month, day int) Day {
	return Day{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a "YYYY-MM-DD" date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

func (d Day) Time() time.Time      { return d.t }
func (d Day) Year() int            { return d.t.Year() }
func (d Day) Month() time.Month    { return d.t.Month() }
func (d Day) DayOfMonth() int      { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) IsZero() bool         { return d.t.IsZero() }
func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool { return d.t.After(other.t) }
func (d Day) AddDays(n int) Day    { return Day{d.t.AddDate(0, 0, n)} }
func (d Day) MonthKey() MonthKey   { return MonthOf(d.t) }

func (d Day) String() string {
	return d.t.Format("2006-01-02")
}

// MarshalJSON renders the day as "YYYY-MM-DD".
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" or an RFC 3339 timestamp, truncating the
// latter to its day.
func (d *Day) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Day{}
		return nil
	}
	if parsed, err := ParseDay(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*d = DayOf(t)
	return nil
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
