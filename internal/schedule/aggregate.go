package schedule

// Class is the schedule-level view of a class session row: just enough to
// evaluate payment obligations. The storage layer maps its own models into
// this shape.
type Class struct {
	ID            string
	EndDate       Day
	Config        PaymentConfig
	StudentEmails []string
}

// DuePair is a (student, class) tuple with a payment obligation on a given day.
type DuePair struct {
	UserEmail string
	ClassID   string
}

// PaymentRecord is the schedule-level view of a completed payment.
type PaymentRecord struct {
	ID        string
	UserEmail string
	ClassID   string
	DueDate   Day
}

// DueStatus is a due pair annotated with its reconciliation result.
type DueStatus struct {
	Pair      DuePair
	Paid      bool
	PaymentID string
}

// DueForDay returns the due pairs for day across classes. Classes sharing a
// base id are charged at most once: once one slot-variant of a class matches
// the day, the remaining variants of that base id are skipped. Student emails
// not present in knownUsers are dropped. viewed limits the computation to a
// +/-1 month window around the displayed month; days outside it yield nothing.
func DueForDay(day Day, classes []Class, knownUsers map[string]bool, viewed MonthKey) []DuePair {
	if !day.MonthKey().WithinWindow(viewed, 1) {
		return nil
	}

	var pairs []DuePair
	matched := make(map[string]bool)
	for _, class := range classes {
		base := BaseID(class.ID)
		if matched[base] {
			continue
		}
		if !DueOnDay(class.Config, class.EndDate, day) {
			continue
		}
		matched[base] = true
		for _, email := range class.StudentEmails {
			if !knownUsers[email] {
				continue
			}
			pairs = append(pairs, DuePair{UserEmail: email, ClassID: class.ID})
		}
	}
	return pairs
}

// ReconcileDay matches recorded payments against the day's due pairs. A
// payment matches a pair when the student emails agree, the base class ids
// agree, and the payment's due date falls on day. Completed payments with no
// matching due pair (the config changed after the fact, or a one-off manual
// payment) synthesize an extra pair marked paid, so a resolved obligation is
// never under-reported.
func ReconcileDay(day Day, pairs []DuePair, payments []PaymentRecord, classesByBase map[string]string) []DueStatus {
	relevant := make([]PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if p.DueDate.Equal(day) {
			relevant = append(relevant, p)
		}
	}

	used := make(map[int]bool)
	statuses := make([]DueStatus, 0, len(pairs))
	for _, pair := range pairs {
		status := DueStatus{Pair: pair}
		for i, p := range relevant {
			if used[i] {
				continue
			}
			if p.UserEmail == pair.UserEmail && BaseID(p.ClassID) == BaseID(pair.ClassID) {
				status.Paid = true
				status.PaymentID = p.ID
				used[i] = true
				break
			}
		}
		statuses = append(statuses, status)
	}

	// Synthesize pairs for orphan completed payments.
	for i, p := range relevant {
		if used[i] {
			continue
		}
		base := BaseID(p.ClassID)
		classID, ok := classesByBase[base]
		if !ok {
			classID = p.ClassID
		}
		statuses = append(statuses, DueStatus{
			Pair:      DuePair{UserEmail: p.UserEmail, ClassID: classID},
			Paid:      true,
			PaymentID: p.ID,
		})
	}
	return statuses
}
