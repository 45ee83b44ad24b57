package schedule

import (
	"testing"
	"time"
)

func TestDueForDayBaseDedup(t *testing.T) {
	// One class taught on two weekdays: two slot rows sharing a base id.
	// The day must be charged once even though both slots carry the config.
	config := weeklyConfig(1, NewDay(2025, time.January, 6)) // Mondays
	classes := []Class{
		{ID: "c1", Config: config, StudentEmails: []string{"ana@example.com"}},
		{ID: "c1-1", Config: config, StudentEmails: []string{"ana@example.com"}},
	}
	users := map[string]bool{"ana@example.com": true}

	day := NewDay(2025, time.March, 10)
	pairs := DueForDay(day, classes, users, day.MonthKey())
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs (%v); want 1 after base-id dedup", len(pairs), pairs)
	}
	if pairs[0] != (DuePair{UserEmail: "ana@example.com", ClassID: "c1"}) {
		t.Errorf("pair = %+v", pairs[0])
	}
}

func TestDueForDayLaterSlotMatches(t *testing.T) {
	// Slot 0 has no due on the day but slot 1 does; the base still matches once.
	monday := weeklyConfig(1, NewDay(2025, time.January, 6))   // Mondays
	tuesday := weeklyConfig(1, NewDay(2025, time.January, 7))  // Tuesdays
	classes := []Class{
		{ID: "c1", Config: monday, StudentEmails: []string{"ana@example.com"}},
		{ID: "c1-1", Config: tuesday, StudentEmails: []string{"ana@example.com"}},
	}
	users := map[string]bool{"ana@example.com": true}

	day := NewDay(2025, time.March, 11) // a Tuesday
	pairs := DueForDay(day, classes, users, day.MonthKey())
	if len(pairs) != 1 || pairs[0].ClassID != "c1-1" {
		t.Fatalf("pairs = %v; want one pair from the tuesday slot", pairs)
	}
}

func TestDueForDayUnknownUsersDropped(t *testing.T) {
	config := monthlyConfig(MonthlyFirst, NewDay(2025, time.January, 1))
	classes := []Class{
		{ID: "c2", Config: config, StudentEmails: []string{"known@example.com", "ghost@example.com"}},
	}
	users := map[string]bool{"known@example.com": true}

	day := NewDay(2025, time.March, 1)
	pairs := DueForDay(day, classes, users, day.MonthKey())
	if len(pairs) != 1 || pairs[0].UserEmail != "known@example.com" {
		t.Fatalf("pairs = %v; want only the known user", pairs)
	}
}

func TestDueForDayOutsideWindow(t *testing.T) {
	config := weeklyConfig(1, NewDay(2025, time.January, 6))
	classes := []Class{{ID: "c1", Config: config, StudentEmails: []string{"ana@example.com"}}}
	users := map[string]bool{"ana@example.com": true}

	day := NewDay(2025, time.June, 2)
	if pairs := DueForDay(day, classes, users, MonthKey{2025, time.March}); pairs != nil {
		t.Errorf("pairs = %v; want none outside the viewed window", pairs)
	}
}

func TestReconcileDayMatching(t *testing.T) {
	day := NewDay(2025, time.March, 10)
	pairs := []DuePair{
		{UserEmail: "ana@example.com", ClassID: "c1"},
		{UserEmail: "ben@example.com", ClassID: "c1"},
	}
	// Ana paid; the record references a slot variant of the same base class.
	payments := []PaymentRecord{
		{ID: "p1", UserEmail: "ana@example.com", ClassID: "c1-1", DueDate: day},
		{ID: "p2", UserEmail: "ana@example.com", ClassID: "c9", DueDate: NewDay(2025, time.March, 3)},
	}

	statuses := ReconcileDay(day, pairs, payments, map[string]string{"c1": "c1"})
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses; want 2", len(statuses))
	}
	if !statuses[0].Paid || statuses[0].PaymentID != "p1" {
		t.Errorf("ana status = %+v; want paid via p1", statuses[0])
	}
	if statuses[1].Paid {
		t.Errorf("ben status = %+v; want unpaid", statuses[1])
	}
}

func TestReconcileDayOrphanPayment(t *testing.T) {
	// A completed payment exists for a day the config no longer flags as due.
	// The reconciled list must still include the pair, marked paid.
	day := NewDay(2025, time.April, 10)
	payments := []PaymentRecord{
		{ID: "p7", UserEmail: "userA@example.com", ClassID: "baseClass1", DueDate: day},
	}

	statuses := ReconcileDay(day, nil, payments, map[string]string{"baseClass1": "baseClass1"})
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses; want 1 synthesized", len(statuses))
	}
	got := statuses[0]
	if got.Pair.UserEmail != "userA@example.com" || BaseID(got.Pair.ClassID) != "baseClass1" {
		t.Errorf("synthesized pair = %+v", got.Pair)
	}
	if !got.Paid || got.PaymentID != "p7" {
		t.Errorf("synthesized status = %+v; want paid via p7", got)
	}
}

func TestReconcileDayIgnoresOtherDays(t *testing.T) {
	day := NewDay(2025, time.April, 10)
	payments := []PaymentRecord{
		{ID: "p8", UserEmail: "a@example.com", ClassID: "c1", DueDate: NewDay(2025, time.April, 11)},
	}
	if statuses := ReconcileDay(day, nil, payments, nil); len(statuses) != 0 {
		t.Errorf("statuses = %v; want none for payments on other days", statuses)
	}
}
