package blackout

import (
	"fmt"
	"strings"
	"time"

	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
	"github.com/teambition/rrule-go"
)

// Set is a collection of days that cannot be booked.
type Set map[datekey.Key]bool

// Has reports whether k is blacked out. A nil set has no days.
func (s Set) Has(k datekey.Key) bool { return s[k] }

// Parse validates an RRULE string. A leading "RRULE:" and a DTSTART line
// (newline or space separated) are accepted.
func Parse(rule string) (*rrule.RRule, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil, fmt.Errorf("empty rule")
	}
	r, err := rrule.StrToRRule(strings.Join(strings.Fields(rule), "\n"))
	if err != nil {
		return nil, fmt.Errorf("invalid rrule %q: %w", rule, err)
	}
	return r, nil
}

// Expand evaluates rules into the concrete days between from and to
// (inclusive). Rules without DTSTART are anchored at from.
func Expand(rules []string, from, to time.Time) (Set, error) {
	set := Set{}
	from = truncate(from)
	to = truncate(to)

	for _, rule := range rules {
		r, err := Parse(rule)
		if err != nil {
			return nil, err
		}

		opts := r.OrigOptions
		if opts.Dtstart.IsZero() {
			opts.Dtstart = from
		}
		anchored, err := rrule.NewRRule(opts)
		if err != nil {
			return nil, err
		}

		for _, d := range anchored.Between(from, to, true) {
			set[datekey.New(d.Year(), d.Month(), d.Day())] = true
		}
	}
	return set, nil
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
