package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackgroundLockReleaseIsIdempotent(t *testing.T) {
	l := &backgroundLock{}

	r1 := l.Acquire()
	r2 := l.Acquire()
	assert.True(t, l.Held())

	r1()
	r1()
	assert.True(t, l.Held(), "second holder still holds")

	r2()
	assert.False(t, l.Held())
	assert.Equal(t, 0, l.holders)
}

func TestModalSetWide(t *testing.T) {
	s := newModalSet(120)

	s.Open(modalCalendar)
	assert.True(t, s.IsOpen(modalCalendar))
	assert.False(t, s.Locked())

	assert.True(t, s.Next())
	assert.False(t, s.IsOpen(modalCalendar))
	assert.True(t, s.IsOpen(modalOccupancy))

	assert.True(t, s.Focus())
	_, open := s.Active()
	assert.False(t, open)
}

func TestModalSetNarrowLocks(t *testing.T) {
	s := newModalSet(60)

	s.Open(modalCalendar)
	assert.True(t, s.Locked())

	assert.False(t, s.Next(), "next is ignored on narrow terminals")
	assert.True(t, s.IsOpen(modalCalendar))

	assert.False(t, s.Focus())
	assert.True(t, s.IsOpen(modalCalendar))

	s.Open(modalOccupancy)
	assert.True(t, s.Locked())
	assert.Equal(t, 1, s.lock.holders)

	s.Close(modalOccupancy)
	assert.False(t, s.Locked())

	s.Close(modalOccupancy)
	assert.Equal(t, 0, s.lock.holders)
}

func TestModalSetResize(t *testing.T) {
	s := newModalSet(120)
	s.Open(modalCalendar)
	assert.False(t, s.Locked())

	s.Resize(70)
	assert.True(t, s.Narrow())
	assert.True(t, s.Locked())

	s.Resize(65)
	assert.Equal(t, 1, s.lock.holders)

	s.Resize(100)
	assert.False(t, s.Locked())
	assert.True(t, s.IsOpen(modalCalendar), "widening keeps the modal open")

	s.Close(modalCalendar)
	s.Resize(50)
	assert.False(t, s.Locked(), "nothing open, nothing held")
}

func TestModalKindString(t *testing.T) {
	assert.Equal(t, "calendar", modalCalendar.String())
	assert.Equal(t, "occupancy", modalOccupancy.String())
}
