package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// RecurrenceOptions describes the one-level recurrence rules this client
// builds: frequency with optional interval, count, until bound and weekday
// list. Events carry the resulting rule as a raw RRULE string.
type RecurrenceOptions struct {
	Frequency string    // DAILY, WEEKLY, MONTHLY or YEARLY
	Interval  int       // emitted only when greater than 1
	Count     int       // emitted only when greater than 0
	Until     time.Time // emitted only when non-zero, as a UTC instant
	ByDay     []string  // two-letter weekday codes, e.g. MO, WE, FR
}

var frequencies = map[string]rrule.Frequency{
	"DAILY":   rrule.DAILY,
	"WEEKLY":  rrule.WEEKLY,
	"MONTHLY": rrule.MONTHLY,
	"YEARLY":  rrule.YEARLY,
}

var weekdays = map[string]rrule.Weekday{
	"MO": rrule.MO,
	"TU": rrule.TU,
	"WE": rrule.WE,
	"TH": rrule.TH,
	"FR": rrule.FR,
	"SA": rrule.SA,
	"SU": rrule.SU,
}

// BuildRecurrenceRule renders the options as an RRULE value, omitting every
// part left at its default.
func BuildRecurrenceRule(opt RecurrenceOptions) (string, error) {
	freq, ok := frequencies[opt.Frequency]
	if !ok {
		return "", fmt.Errorf("unsupported recurrence frequency %q", opt.Frequency)
	}

	ropt := rrule.ROption{Freq: freq}
	if opt.Interval > 1 {
		ropt.Interval = opt.Interval
	}
	if opt.Count > 0 {
		ropt.Count = opt.Count
	}
	if !opt.Until.IsZero() {
		ropt.Until = opt.Until.UTC()
	}
	for _, day := range opt.ByDay {
		wd, ok := weekdays[day]
		if !ok {
			return "", fmt.Errorf("unsupported BYDAY value %q", day)
		}
		ropt.Byweekday = append(ropt.Byweekday, wd)
	}

	if _, err := rrule.NewRRule(ropt); err != nil {
		return "", fmt.Errorf("invalid recurrence options: %w", err)
	}
	return ropt.RRuleString(), nil
}

// ValidateRecurrenceRule reports whether a raw RRULE value parses.
func ValidateRecurrenceRule(rule string) error {
	if _, err := rrule.StrToROption(rule); err != nil {
		return fmt.Errorf("invalid recurrence rule %q: %w", rule, err)
	}
	return nil
}
