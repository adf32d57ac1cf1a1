package cli

// wideWidth is the narrowest terminal that shows modals as dropdowns under
// the search bar. Below it a modal covers the whole screen.
const wideWidth = 80

type modalKind int

const (
	modalCalendar modalKind = iota
	modalOccupancy
	modalCount
)

func (k modalKind) String() string {
	switch k {
	case modalCalendar:
		return "calendar"
	case modalOccupancy:
		return "occupancy"
	}
	return "none"
}

// backgroundLock freezes the search bar behind a full-screen modal. It stays
// held while any holder remains.
type backgroundLock struct {
	holders int
}

// Acquire takes a hold and returns its release. Calling the release more
// than once has no further effect.
func (l *backgroundLock) Acquire() (release func()) {
	l.holders++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.holders--
	}
}

func (l *backgroundLock) Held() bool { return l.holders > 0 }

// modalSet tracks which search-bar modal is open. At most one is open at a
// time.
type modalSet struct {
	open    [modalCount]bool
	release [modalCount]func()
	lock    *backgroundLock
	narrow  bool
}

func newModalSet(width int) *modalSet {
	return &modalSet{
		lock:   &backgroundLock{},
		narrow: width < wideWidth,
	}
}

func (s *modalSet) IsOpen(k modalKind) bool { return s.open[k] }

// Active returns the open modal, or false when none is.
func (s *modalSet) Active() (modalKind, bool) {
	for k := modalKind(0); k < modalCount; k++ {
		if s.open[k] {
			return k, true
		}
	}
	return 0, false
}

func (s *modalSet) Narrow() bool { return s.narrow }

// Locked reports whether background navigation is frozen.
func (s *modalSet) Locked() bool { return s.lock.Held() }

// Open shows k, closing any other modal first.
func (s *modalSet) Open(k modalKind) {
	for o := modalKind(0); o < modalCount; o++ {
		if o != k {
			s.Close(o)
		}
	}
	if s.open[k] {
		return
	}
	s.open[k] = true
	if s.narrow {
		s.release[k] = s.lock.Acquire()
	}
}

// Close hides k and drops its hold on the background.
func (s *modalSet) Close(k modalKind) {
	s.open[k] = false
	if rel := s.release[k]; rel != nil {
		rel()
		s.release[k] = nil
	}
}

// Focus is the search bar taking focus on a wide terminal: every modal
// closes. On a narrow terminal the bar is hidden behind the modal and focus
// cannot reach it.
func (s *modalSet) Focus() bool {
	if s.narrow {
		return false
	}
	for k := modalKind(0); k < modalCount; k++ {
		s.Close(k)
	}
	return true
}

// Next moves from the calendar to the occupancy picker on wide terminals.
func (s *modalSet) Next() bool {
	if s.narrow || !s.open[modalCalendar] {
		return false
	}
	s.Open(modalOccupancy)
	return true
}

// Resize re-evaluates the layout. Narrowing with an open modal takes a hold,
// widening releases every hold.
func (s *modalSet) Resize(width int) {
	narrow := width < wideWidth
	if narrow == s.narrow {
		return
	}
	s.narrow = narrow
	for k := modalKind(0); k < modalCount; k++ {
		switch {
		case narrow && s.open[k] && s.release[k] == nil:
			s.release[k] = s.lock.Acquire()
		case !narrow && s.release[k] != nil:
			s.release[k]()
			s.release[k] = nil
		}
	}
}
