package datekey

import (
	"fmt"
	"strings"
	"time"
)

// Parse parses a date expression relative to the current time.
func Parse(s string) (Key, error) {
	return parse(s, time.Now())
}

// ParseAt parses a date expression relative to now.
func ParseAt(s string, now time.Time) (Key, error) {
	return parse(s, now)
}

// parse supports: "20240310", "2024-03-10", "today", "tomorrow", "monday",
// "next tuesday", "on Monday", "Mar 10", "Mar 10 2024", "March 10",
// "10 Mar", "10 March 2024".
func parse(s string, now time.Time) (Key, error) {
	raw := s
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSpace(strings.TrimPrefix(s, "on "))
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalid)
	}

	switch s {
	case "today":
		return FromTime(now), nil
	case "tomorrow":
		return FromTime(now.AddDate(0, 0, 1)), nil
	}

	cleaned := strings.TrimPrefix(s, "next ")
	if wd, ok := weekdays[cleaned]; ok {
		return FromTime(nextWeekday(now, wd)), nil
	}

	layouts := []string{
		Layout,
		"2006-01-02",
		"2006.01.02",
		"jan 2",
		"jan 2 2006",
		"january 2",
		"january 2 2006",
		"2 jan",
		"2 jan 2006",
		"2 january",
		"2 january 2006",
	}

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		if !strings.Contains(layout, "2006") {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		}
		return FromTime(t), nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// nextWeekday returns the next occurrence of wd after now.
// If now is that weekday, it returns the following week.
func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	ahead := int(wd) - int(today.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return today.AddDate(0, 0, ahead)
}
