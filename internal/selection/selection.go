package selection

import (
	"errors"
	"fmt"

	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
)

// ErrInvalidRange is returned when a check-in/check-out pair cannot form a stay.
var ErrInvalidRange = errors.New("invalid date range")

// State is the phase of a date-range selection.
type State int

const (
	StateEmpty State = iota
	StateAwaitingEnd
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingEnd:
		return "awaiting-end"
	case StateComplete:
		return "complete"
	}
	return "empty"
}

// Selection is a check-in/check-out pair. Either side may be empty.
type Selection struct {
	CheckIn  datekey.Key `json:"checkIn"`
	CheckOut datekey.Key `json:"checkOut"`
}

// State derives the phase from the fields.
func (s Selection) State() State {
	switch {
	case s.CheckIn.IsZero():
		return StateEmpty
	case s.CheckOut.IsZero():
		return StateAwaitingEnd
	}
	return StateComplete
}

// Complete reports whether both ends are set.
func (s Selection) Complete() bool { return s.State() == StateComplete }

// Nights returns the number of nights in a complete selection.
func (s Selection) Nights() int { return datekey.Nights(s.CheckIn, s.CheckOut) }

// Validate checks that the pair is a usable stay: an empty selection, a lone
// check-in, or a check-in strictly before check-out.
func (s Selection) Validate() error {
	if s.CheckIn != "" && !s.CheckIn.Valid() {
		return fmt.Errorf("%w: check-in %q is not a date", ErrInvalidRange, s.CheckIn)
	}
	if s.CheckOut == "" {
		return nil
	}
	if s.CheckIn == "" {
		return fmt.Errorf("%w: check-out %s without check-in", ErrInvalidRange, s.CheckOut)
	}
	if !s.CheckOut.Valid() {
		return fmt.Errorf("%w: check-out %q is not a date", ErrInvalidRange, s.CheckOut)
	}
	if !s.CheckIn.Before(s.CheckOut) {
		return fmt.Errorf("%w: check-out %s is not after check-in %s", ErrInvalidRange, s.CheckOut, s.CheckIn)
	}
	return nil
}

// Transition describes what a click did.
type Transition int

const (
	// Ignored means the click changed nothing.
	Ignored Transition = iota
	// Started means an empty selection received its check-in.
	Started
	// Completed means the click set the check-out.
	Completed
	// Restarted means a complete range was discarded for a new check-in.
	Restarted
	// Moved means the check-in moved to an earlier day.
	Moved
)

func (t Transition) String() string {
	switch t {
	case Started:
		return "started"
	case Completed:
		return "completed"
	case Restarted:
		return "restarted"
	case Moved:
		return "moved"
	}
	return "ignored"
}

// Machine turns day clicks into a check-in/check-out range and keeps cell
// tags consistent with it. Calls must be serialized by the caller.
type Machine struct {
	sel Selection
}

// NewMachine returns a machine with an empty selection.
func NewMachine() *Machine {
	return &Machine{}
}

// Selection returns the current selection.
func (m *Machine) Selection() Selection { return m.sel }

// State returns the current phase.
func (m *Machine) State() State { return m.sel.State() }

// Click applies a click on day d, tagging cells through reg.
// Re-clicking the current check-in while awaiting a check-out is a no-op, and
// so is a click on a key that is not a calendar day.
func (m *Machine) Click(d datekey.Key, reg Registry) Transition {
	if !d.Valid() {
		return Ignored
	}
	start := m.sel.CheckIn

	switch {
	case m.sel.CheckIn.IsZero():
		reg.Add(d, TagStartOnly)
		m.sel = Selection{CheckIn: d}
		return Started

	case !m.sel.CheckOut.IsZero():
		reg.Clear()
		reg.Add(d, TagStartOnly)
		m.sel = Selection{CheckIn: d}
		return Restarted

	case d.After(start):
		for _, k := range datekey.Between(start, d) {
			reg.Add(k, TagSelected)
		}
		reg.Remove(start, TagStartOnly)
		reg.Add(start, TagStart)
		reg.Add(d, TagEnd)
		m.sel.CheckOut = d
		return Completed

	case d.Before(start):
		reg.Remove(start, TagStartOnly)
		reg.Add(d, TagStartOnly)
		m.sel = Selection{CheckIn: d}
		return Moved
	}

	return Ignored
}

// Restore replaces the selection with sel and re-tags reg to match.
// An invalid pair leaves the machine untouched.
func (m *Machine) Restore(sel Selection, reg Registry) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	reg.Clear()
	m.sel = Selection{}
	if sel.CheckIn == "" {
		return nil
	}
	m.Click(sel.CheckIn, reg)
	if sel.CheckOut != "" {
		m.Click(sel.CheckOut, reg)
	}
	return nil
}

// Reset empties the selection and clears every tag.
func (m *Machine) Reset(reg Registry) {
	reg.Clear()
	m.sel = Selection{}
}
