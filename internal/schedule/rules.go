package schedule

import (
	"github.com/teambition/rrule-go"
)

// PaymentType discriminates the two supported payment schedules.
type PaymentType string

const (
	PaymentTypeWeekly  PaymentType = "weekly"
	PaymentTypeMonthly PaymentType = "monthly"
)

// MonthlyOption picks the fixed day of month for monthly schedules.
type MonthlyOption string

const (
	MonthlyFirst   MonthlyOption = "first"
	MonthlyFifteen MonthlyOption = "fifteen"
	MonthlyLast    MonthlyOption = "last"
)

// PaymentConfig describes when and how much a class charges. Weekly configs
// are due every WeeklyInterval weeks counted from StartDate; monthly configs
// are due on the day-rule given by MonthlyOption.
type PaymentConfig struct {
	Type           PaymentType   `json:"type"`
	WeeklyInterval int           `json:"weekly_interval,omitempty"`
	MonthlyOption  MonthlyOption `json:"monthly_option,omitempty"`
	Amount         float64       `json:"amount"`
	Currency       string        `json:"currency"`
	StartDate      Day           `json:"start_date"`
}

func (c PaymentConfig) monthDay() int {
	switch c.MonthlyOption {
	case MonthlyFirst:
		return 1
	case MonthlyFifteen:
		return 15
	case MonthlyLast:
		return -1
	}
	return 0
}

// DueDatesInMonth returns the calendar days within month on which a payment
// is due under config, bounded by the class start/end dates. classEnd may be
// zero for open-ended classes.
func DueDatesInMonth(config PaymentConfig, classEnd Day, month MonthKey) []Day {
	start := config.StartDate
	if start.IsZero() {
		return nil
	}
	// Nothing is due before the first configured month or after the class ended.
	if month.Before(start.MonthKey()) {
		return nil
	}
	if !classEnd.IsZero() && classEnd.Before(month.First()) {
		return nil
	}

	opt := rrule.ROption{Dtstart: start.Time()}
	switch config.Type {
	case PaymentTypeWeekly:
		interval := config.WeeklyInterval
		if interval < 1 {
			interval = 1
		}
		opt.Freq = rrule.WEEKLY
		opt.Interval = interval
	case PaymentTypeMonthly:
		day := config.monthDay()
		if day == 0 {
			return nil
		}
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{day}
	default:
		return nil
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}

	var due []Day
	for _, t := range rule.Between(month.First().Time(), month.Last().Time(), true) {
		d := DayOf(t)
		if d.Before(start) {
			continue
		}
		if !classEnd.IsZero() && d.After(classEnd) {
			continue
		}
		due = append(due, d)
	}
	return due
}

// DueOnDay reports whether a payment is due on day under config.
func DueOnDay(config PaymentConfig, classEnd Day, day Day) bool {
	for _, d := range DueDatesInMonth(config, classEnd, day.MonthKey()) {
		if d.Equal(day) {
			return true
		}
	}
	return false
}
