package datekey

import (
	"errors"
	"time"
)

// Layout is the canonical key layout. Zero padding keeps string order equal
// to calendar order.
const Layout = "20060102"

// ErrInvalid is returned when a string is not a recognizable date.
var ErrInvalid = errors.New("invalid date")

// Key identifies a calendar day as yyyyMMdd.
type Key string

// New returns the key for the given day. Out-of-range months and days are
// normalized the way time.Date normalizes them.
func New(year int, month time.Month, day int) Key {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the key for the calendar day of t in t's location.
func FromTime(t time.Time) Key {
	return Key(t.Format(Layout))
}

// Valid reports whether k is a well-formed key for an existing day.
func (k Key) Valid() bool {
	t, err := time.Parse(Layout, string(k))
	return err == nil && FromTime(t) == k
}

// Time returns midnight UTC of the day. Invalid keys yield the zero time.
func (k Key) Time() time.Time {
	t, err := time.Parse(Layout, string(k))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (k Key) String() string { return string(k) }

// IsZero reports whether k is empty.
func (k Key) IsZero() bool { return k == "" }

func (k Key) Before(o Key) bool { return k < o }
func (k Key) After(o Key) bool  { return k > o }

// AddDays returns the key n days away from k.
func (k Key) AddDays(n int) Key {
	return FromTime(k.Time().AddDate(0, 0, n))
}

// Day returns the day of month.
func (k Key) Day() int { return k.Time().Day() }

// Display renders the key as yyyy.MM.dd.
func (k Key) Display() string {
	if k == "" {
		return ""
	}
	return k.Time().Format("2006.01.02")
}

// Between returns every day strictly after from and strictly before to, in
// order. It walks the calendar, so ranges crossing a month end are complete.
func Between(from, to Key) []Key {
	if !from.Valid() || !to.Valid() || !from.Before(to) {
		return nil
	}
	var keys []Key
	for d := from.AddDays(1); d.Before(to); d = d.AddDays(1) {
		keys = append(keys, d)
	}
	return keys
}

// Nights returns the number of nights between check-in and check-out.
// Returns 0 if the range is incomplete or inverted.
func Nights(checkIn, checkOut Key) int {
	if !checkIn.Valid() || !checkOut.Valid() || !checkIn.Before(checkOut) {
		return 0
	}
	return int(checkOut.Time().Sub(checkIn.Time()).Hours() / 24)
}

// MonthTitle renders the month header as yyyy.MM.
func MonthTitle(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006.01")
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

