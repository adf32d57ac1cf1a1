package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/blackout"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/search"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/selection"
)

const (
	cellWidth   = 4
	monthWidth  = 7 * cellWidth
	monthGap    = 4
	maxWeeks    = 6
	barHeight   = 3 // title, search bar, blank
	monthHeader = 2 // month title, weekday names
)

// dayCell is the rendered cell of one day. Its key is bound at construction
// so clicks never have to recover the date from the cell's text.
type dayCell struct {
	selection.TagCell
	key     datekey.Key
	past    bool
	blocked bool
	isToday bool
}

func (c *dayCell) disabled() bool { return c.past || c.blocked }

// calendarMonth is one page of the calendar.
type calendarMonth struct {
	year  int
	month time.Month
}

func (cm calendarMonth) days() int { return datekey.DaysIn(cm.year, cm.month) }

// offset is the weekday column of the first day, Sunday first.
func (cm calendarMonth) offset() int {
	return int(time.Date(cm.year, cm.month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

func (cm calendarMonth) key(day int) datekey.Key { return datekey.New(cm.year, cm.month, day) }

func (cm calendarMonth) title() string { return datekey.MonthTitle(cm.year, cm.month) }

type searchKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Pick      key.Binding
	Next      key.Binding
	Reset     key.Binding
	Close     key.Binding
	Dates     key.Binding
	Guests    key.Binding
	Focus     key.Binding
	Submit    key.Binding
	Quit      key.Binding
}

func newSearchKeyMap() searchKeyMap {
	return searchKeyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "day")),
		Right:     key.NewBinding(key.WithKeys("right", "l")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "week")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		PrevMonth: key.NewBinding(key.WithKeys("pgup", "["), key.WithHelp("[/]", "month")),
		NextMonth: key.NewBinding(key.WithKeys("pgdown", "]")),
		Pick:      key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "pick")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "guests")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Dates:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dates")),
		Guests:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "guests")),
		Focus:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "focus bar")),
		Submit:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// background reports whether msg is one of the search bar's own keys.
func (k searchKeyMap) background(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Dates, k.Guests, k.Focus, k.Submit, k.Quit)
}

type searchModel struct {
	months     []calendarMonth
	cells      map[datekey.Key]*dayCell
	reg        selection.Registry
	machine    *selection.Machine
	occupancy  search.Occupancy
	cursor     datekey.Key
	scroll     int // first visible month
	modals     *modalSet
	overlay    tea.Model // guest picker while the occupancy modal is open
	termWidth  int
	termHeight int
	keys       searchKeyMap
	help       help.Model
	footerMsg  string // temporary message shown in footer
	submitted  bool
}

// searchModelConfig holds everything needed to lay out the calendar.
type searchModelConfig struct {
	start    time.Time // any day of the first month
	months   int
	today    datekey.Key
	blocked  blackout.Set
	criteria search.Criteria
	width    int
	height   int
}

func newSearchModel(cfg searchModelConfig) (searchModel, error) {
	if cfg.months < 1 {
		return searchModel{}, fmt.Errorf("months must be at least 1, got %d", cfg.months)
	}

	m := searchModel{
		cells:      make(map[datekey.Key]*dayCell),
		reg:        make(selection.Registry),
		machine:    selection.NewMachine(),
		occupancy:  cfg.criteria.Occupancy.Clamp(),
		termWidth:  cfg.width,
		termHeight: cfg.height,
		modals:     newModalSet(cfg.width),
		keys:       newSearchKeyMap(),
		help:       help.New(),
	}

	first := time.Date(cfg.start.Year(), cfg.start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < cfg.months; i++ {
		t := first.AddDate(0, i, 0)
		cm := calendarMonth{year: t.Year(), month: t.Month()}
		m.months = append(m.months, cm)
		for day := 1; day <= cm.days(); day++ {
			k := cm.key(day)
			cell := &dayCell{
				key:     k,
				past:    cfg.today != "" && k.Before(cfg.today),
				blocked: cfg.blocked.Has(k),
				isToday: k == cfg.today,
			}
			m.cells[k] = cell
			m.reg[k] = cell
		}
	}

	dates := cfg.criteria.Dates
	for _, k := range []datekey.Key{dates.CheckIn, dates.CheckOut} {
		if k != "" && m.cells[k] == nil {
			return searchModel{}, fmt.Errorf("%s is outside the calendar (%s - %s)", k.Display(), m.firstDay().Display(), m.lastDay().Display())
		}
	}
	// Restored dates follow the same rule as clicks: a disabled day is never
	// an endpoint of the stay.
	if dates.CheckIn != "" && m.cells[dates.CheckIn].disabled() {
		return searchModel{}, fmt.Errorf("check-in %s is not available", dates.CheckIn.Display())
	}
	if dates.CheckOut != "" && m.cells[dates.CheckOut].disabled() {
		return searchModel{}, fmt.Errorf("check-out %s is not available", dates.CheckOut.Display())
	}
	if k, ok := m.firstBlockedNight(dates.CheckIn, dates.CheckOut); ok {
		return searchModel{}, fmt.Errorf("%s is not available", k.Display())
	}
	if err := m.machine.Restore(dates, m.reg); err != nil {
		return searchModel{}, err
	}

	switch {
	case dates.CheckIn != "":
		m.cursor = dates.CheckIn
	case m.cells[cfg.today] != nil:
		m.cursor = cfg.today
	default:
		m.cursor = m.firstDay()
	}
	m.help.Width = cfg.width
	return m.ensureCursorVisible(), nil
}

func (m searchModel) Init() tea.Cmd {
	return nil
}

func (m searchModel) firstDay() datekey.Key { return m.months[0].key(1) }

func (m searchModel) lastDay() datekey.Key {
	last := m.months[len(m.months)-1]
	return last.key(last.days())
}

// criteria is what the search bar currently holds.
func (m searchModel) criteria() search.Criteria {
	return search.Criteria{Dates: m.machine.Selection(), Occupancy: m.occupancy}
}

func (m searchModel) visibleMonths() int {
	if m.modals.Narrow() || len(m.months) < 2 {
		return 1
	}
	return 2
}

func (m searchModel) maxScroll() int {
	max := len(m.months) - m.visibleMonths()
	if max < 0 {
		return 0
	}
	return max
}

// monthIndex returns the calendar page holding k, or -1.
func (m searchModel) monthIndex(k datekey.Key) int {
	if !k.Valid() {
		return -1
	}
	t := k.Time()
	first := m.months[0]
	idx := (t.Year()-first.year)*12 + int(t.Month()-first.month)
	if idx < 0 || idx >= len(m.months) {
		return -1
	}
	return idx
}

// moveCursor sets the cursor to k clamped to the calendar.
func (m searchModel) moveCursor(k datekey.Key) searchModel {
	switch {
	case k.Before(m.firstDay()):
		k = m.firstDay()
	case k.After(m.lastDay()):
		k = m.lastDay()
	}
	m.cursor = k
	return m.ensureCursorVisible()
}

// moveCursorMonths jumps n months keeping the day of month where possible.
func (m searchModel) moveCursorMonths(n int) searchModel {
	t := m.cursor.Time()
	target := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := t.Day()
	if dim := datekey.DaysIn(target.Year(), target.Month()); day > dim {
		day = dim
	}
	return m.moveCursor(datekey.New(target.Year(), target.Month(), day))
}

// ensureCursorVisible adjusts scroll so the cursor month is on screen.
func (m searchModel) ensureCursorVisible() searchModel {
	idx := m.monthIndex(m.cursor)
	if idx >= 0 {
		if idx < m.scroll {
			m.scroll = idx
		}
		if idx >= m.scroll+m.visibleMonths() {
			m.scroll = idx - m.visibleMonths() + 1
		}
	}
	return m.clampScroll()
}

// clampScroll ensures scroll values are within valid bounds.
func (m searchModel) clampScroll() searchModel {
	if m.scroll > m.maxScroll() {
		m.scroll = m.maxScroll()
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
	return m
}

// dayAt resolves a screen position to the day cell drawn there.
func (m searchModel) dayAt(x, y int) (datekey.Key, bool) {
	row := y - barHeight - monthHeader
	if x < 0 || row < 0 || row >= maxWeeks {
		return "", false
	}
	slot := x / (monthWidth + monthGap)
	within := x % (monthWidth + monthGap)
	if slot >= m.visibleMonths() || within >= monthWidth {
		return "", false
	}
	idx := m.scroll + slot
	if idx >= len(m.months) {
		return "", false
	}
	cm := m.months[idx]
	day := row*7 + within/cellWidth - cm.offset() + 1
	if day < 1 || day > cm.days() {
		return "", false
	}
	return cm.key(day), true
}

// firstBlockedNight returns the first unavailable day strictly inside the
// stay from checkIn to checkOut.
func (m searchModel) firstBlockedNight(checkIn, checkOut datekey.Key) (datekey.Key, bool) {
	for _, k := range datekey.Between(checkIn, checkOut) {
		if c := m.cells[k]; c != nil && c.disabled() {
			return k, true
		}
	}
	return "", false
}

func printStaticSearch(w io.Writer, m searchModel) error {
	_, err := fmt.Fprint(w, m.renderStatic())
	return err
}
