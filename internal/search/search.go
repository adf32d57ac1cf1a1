package search

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/selection"
)

// Query keys understood by the listing page.
const (
	KeyCheckIn  = "checkIn"
	KeyCheckOut = "checkOut"
	KeyAdult    = "adult"
	KeyKid      = "kid"
)

const (
	DefaultAdults = 2
	DefaultKids   = 0
	MaxGuests     = 16
)

// Occupancy is the guest count for a stay.
type Occupancy struct {
	Adults int `json:"adult"`
	Kids   int `json:"kid"`
}

// DefaultOccupancy is two adults and no kids.
func DefaultOccupancy() Occupancy {
	return Occupancy{Adults: DefaultAdults, Kids: DefaultKids}
}

// Total returns adults plus kids.
func (o Occupancy) Total() int { return o.Adults + o.Kids }

// Empty reports whether no guests are set.
func (o Occupancy) Empty() bool { return o.Adults == 0 && o.Kids == 0 }

// Clamp bounds both counts to [0, MaxGuests].
func (o Occupancy) Clamp() Occupancy {
	return Occupancy{Adults: clamp(o.Adults), Kids: clamp(o.Kids)}
}

func (o Occupancy) String() string {
	if o.Kids == 0 {
		return fmt.Sprintf("adults %d", o.Adults)
	}
	return fmt.Sprintf("adults %d, kids %d", o.Adults, o.Kids)
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxGuests {
		return MaxGuests
	}
	return n
}

// Criteria is everything the search bar submits.
type Criteria struct {
	Dates     selection.Selection
	Occupancy Occupancy
}

// Compose turns criteria into query parameters. With no guests only the
// dates are sent, with incomplete dates only the guests are sent, otherwise
// both.
func Compose(c Criteria) url.Values {
	q := url.Values{}
	dates := func() {
		if c.Dates.CheckIn != "" {
			q.Set(KeyCheckIn, c.Dates.CheckIn.String())
		}
		if c.Dates.CheckOut != "" {
			q.Set(KeyCheckOut, c.Dates.CheckOut.String())
		}
	}
	guests := func() {
		q.Set(KeyAdult, strconv.Itoa(c.Occupancy.Adults))
		q.Set(KeyKid, strconv.Itoa(c.Occupancy.Kids))
	}

	switch {
	case c.Occupancy.Empty():
		dates()
	case !c.Dates.Complete():
		guests()
	default:
		dates()
		guests()
	}
	return q
}

// FromQuery reads criteria back out of a location query. Missing guest
// counts fall back to the defaults.
func FromQuery(q url.Values) (Criteria, error) {
	return FromQueryAt(q, time.Now())
}

// FromQueryAt is FromQuery with relative dates resolved against now.
func FromQueryAt(q url.Values, now time.Time) (Criteria, error) {
	c := Criteria{Occupancy: DefaultOccupancy()}

	for _, f := range []struct {
		key string
		dst *datekey.Key
	}{
		{KeyCheckIn, &c.Dates.CheckIn},
		{KeyCheckOut, &c.Dates.CheckOut},
	} {
		raw := q.Get(f.key)
		if raw == "" {
			continue
		}
		k, err := datekey.ParseAt(raw, now)
		if err != nil {
			return Criteria{}, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = k
	}
	if err := c.Dates.Validate(); err != nil {
		return Criteria{}, err
	}

	for _, f := range []struct {
		key string
		dst *int
	}{
		{KeyAdult, &c.Occupancy.Adults},
		{KeyKid, &c.Occupancy.Kids},
	} {
		raw := q.Get(f.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > MaxGuests {
			return Criteria{}, fmt.Errorf("%s: invalid guest count %q", f.key, raw)
		}
		*f.dst = n
	}

	return c, nil
}
