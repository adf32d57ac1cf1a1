package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/selection"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)

	rangeEdgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#6B4EFF"))
	rangeStyle     = lipgloss.NewStyle().Background(lipgloss.Color("#E4DEFF")).Foreground(lipgloss.Color("#1C1C1E"))
	blockedStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	pastStyle      = lipgloss.NewStyle().Faint(true)
	todayStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00B3C7"))
	weekendStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3B30"))
)

var weekdayNames = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

func (m searchModel) View() string {
	if m.overlay != nil && m.modals.Narrow() {
		return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, m.overlay.View(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	var b strings.Builder
	b.WriteString(m.renderBar())

	active, open := m.modals.Active()
	switch {
	case open && active == modalCalendar:
		b.WriteString(renderCalendar(m.months, m.cells, m.scroll, m.visibleMonths(), m.cursor))
		b.WriteString("\n")
	case m.overlay != nil:
		b.WriteString(m.overlay.View())
		b.WriteString("\n")
	default:
		b.WriteString(Silent("d dates  |  g guests  |  s search"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.footerMsg != "" {
		b.WriteString(m.footerMsg)
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(m.help.ShortHelpView(m.helpBindings())))
	b.WriteString("\n")
	return b.String()
}

// renderBar draws the barHeight lines above the calendar.
func (m searchModel) renderBar() string {
	active, open := m.modals.Active()

	title := headerStyle.Render("tripbtoz") + "  " + Silent("find your stay")
	if open && m.modals.Narrow() && active == modalCalendar {
		title = headerStyle.Render("Select dates")
	}

	dates := m.datesLabel()
	guests := m.guestsLabel()
	if open && active == modalCalendar {
		dates = selectedStyle.Render(dates)
	}
	if open && active == modalOccupancy {
		guests = selectedStyle.Render(guests)
	}

	bar := dates + "  |  " + guests
	if open && m.modals.Narrow() {
		bar = dates
	}
	return title + "\n" + bar + "\n\n"
}

func (m searchModel) datesLabel() string {
	sel := m.machine.Selection()
	switch sel.State() {
	case selection.StateEmpty:
		return "Dates: check-in - check-out"
	case selection.StateAwaitingEnd:
		return fmt.Sprintf("Dates: %s - check-out", sel.CheckIn.Display())
	}
	return fmt.Sprintf("Dates: %s - %s (%d nights)", sel.CheckIn.Display(), sel.CheckOut.Display(), sel.Nights())
}

func (m searchModel) guestsLabel() string {
	return "Guests: " + m.occupancy.String()
}

func (m searchModel) helpBindings() []key.Binding {
	active, open := m.modals.Active()
	var bindings []key.Binding
	switch {
	case open && active == modalCalendar:
		bindings = []key.Binding{m.keys.Left, m.keys.Up, m.keys.PrevMonth, m.keys.Pick, m.keys.Reset, m.keys.Close}
		if !m.modals.Narrow() {
			bindings = append(bindings, m.keys.Next)
		}
	case open:
		bindings = []key.Binding{m.keys.Close}
	default:
		return []key.Binding{m.keys.Dates, m.keys.Guests, m.keys.Submit, m.keys.Quit}
	}
	if !m.modals.Narrow() {
		bindings = append(bindings, m.keys.Focus, m.keys.Submit)
	}
	return bindings
}

// renderStatic draws the calendar and the criteria without any key hints.
func (m searchModel) renderStatic() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("tripbtoz"))
	b.WriteString("\n\n")
	b.WriteString(renderCalendar(m.months, m.cells, m.scroll, m.visibleMonths(), ""))
	b.WriteString("\n\n")
	b.WriteString(m.datesLabel())
	b.WriteString("\n")
	b.WriteString(m.guestsLabel())
	b.WriteString("\n")
	return b.String()
}

// renderCalendar draws visible months side by side starting at scroll. The
// result is always monthHeader+maxWeeks lines so positions can be mapped
// back to days.
func renderCalendar(months []calendarMonth, cells map[datekey.Key]*dayCell, scroll, visible int, cursor datekey.Key) string {
	end := scroll + visible
	if end > len(months) {
		end = len(months)
	}

	lines := make([]string, monthHeader+maxWeeks)
	gap := strings.Repeat(" ", monthGap)
	for idx := scroll; idx < end; idx++ {
		block := renderMonth(months[idx], cells, cursor)
		for i := range lines {
			if idx > scroll {
				lines[i] += gap
			}
			lines[i] += block[i]
		}
	}
	return strings.Join(lines, "\n")
}

// renderMonth returns the lines of one month, each monthWidth columns wide.
func renderMonth(cm calendarMonth, cells map[datekey.Key]*dayCell, cursor datekey.Key) []string {
	lines := make([]string, 0, monthHeader+maxWeeks)
	lines = append(lines, headerStyle.Render(padCenter(cm.title(), monthWidth)))

	var header strings.Builder
	for i, name := range weekdayNames {
		label := fmt.Sprintf("%3s ", name)
		if i == 0 || i == 6 {
			header.WriteString(weekendStyle.Render(label))
		} else {
			header.WriteString(footerStyle.Render(label))
		}
	}
	lines = append(lines, header.String())

	blank := strings.Repeat(" ", cellWidth)
	day := 1 - cm.offset()
	for w := 0; w < maxWeeks; w++ {
		var row strings.Builder
		for col := 0; col < 7; col, day = col+1, day+1 {
			if day < 1 || day > cm.days() {
				row.WriteString(blank)
				continue
			}
			k := cm.key(day)
			row.WriteString(renderDay(cells[k], day, k == cursor))
		}
		lines = append(lines, row.String())
	}
	return lines
}

// renderDay draws one cell. Range markers keep the selection readable when
// colors are unavailable.
func renderDay(c *dayCell, day int, cursor bool) string {
	text := fmt.Sprintf(" %2d ", day)
	style := lipgloss.NewStyle()
	if c != nil {
		switch {
		case c.Tags.Has(selection.TagStart):
			text = fmt.Sprintf("[%2d=", day)
			style = rangeEdgeStyle
		case c.Tags.Has(selection.TagStartOnly):
			text = fmt.Sprintf("[%2d ", day)
			style = rangeEdgeStyle
		case c.Tags.Has(selection.TagEnd):
			text = fmt.Sprintf("=%2d]", day)
			style = rangeEdgeStyle
		case c.Tags.Has(selection.TagSelected):
			text = fmt.Sprintf("=%2d=", day)
			style = rangeStyle
		case c.blocked:
			text = fmt.Sprintf(" %2dx", day)
			style = blockedStyle
		case c.past:
			style = pastStyle
		case c.isToday:
			style = todayStyle
		}
	}
	if cursor {
		style = style.Underline(true).Bold(true)
	}
	return style.Render(text)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
