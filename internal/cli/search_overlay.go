package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/search"
)

// overlayResult is sent when an overlay completes.
type overlayResult struct {
	action string // "cancel", "apply"
	err    error
}

func overlayResultMsg(action string, err error) tea.Cmd {
	return func() tea.Msg {
		return overlayResult{action: action, err: err}
	}
}

var (
	overlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Width(40)
	overlayTitleStyle  = lipgloss.NewStyle().Bold(true)
	overlayActiveStyle = lipgloss.NewStyle().Reverse(true)
	overlayMutedStyle  = lipgloss.NewStyle().Faint(true)
)

type occupancyField int

const (
	occupancyAdults occupancyField = iota
	occupancyKids
)

// occupancyOverlay is the guest picker. Counts change in place and are only
// handed back to the search bar on apply.
type occupancyOverlay struct {
	occupancy search.Occupancy
	field     occupancyField
}

func newOccupancyOverlay(o search.Occupancy) *occupancyOverlay {
	return &occupancyOverlay{occupancy: o.Clamp()}
}

func (o *occupancyOverlay) Init() tea.Cmd { return nil }

func (o *occupancyOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return o, overlayResultMsg("cancel", nil)
		case "enter":
			return o, overlayResultMsg("apply", nil)
		case "up", "k", "shift+tab":
			if o.field > occupancyAdults {
				o.field--
			}
		case "down", "j", "tab":
			if o.field < occupancyKids {
				o.field++
			}
		case "right", "l", "+", "=":
			o.step(1)
		case "left", "h", "-":
			o.step(-1)
		}
	}
	return o, nil
}

func (o *occupancyOverlay) step(delta int) {
	switch o.field {
	case occupancyAdults:
		o.occupancy.Adults += delta
	case occupancyKids:
		o.occupancy.Kids += delta
	}
	o.occupancy = o.occupancy.Clamp()
}

func (o *occupancyOverlay) View() string {
	var b strings.Builder
	b.WriteString(overlayTitleStyle.Render("Guests"))
	b.WriteString("\n\n")

	rows := []struct {
		field occupancyField
		label string
		count int
	}{
		{occupancyAdults, "Adults", o.occupancy.Adults},
		{occupancyKids, "Kids", o.occupancy.Kids},
	}
	for _, r := range rows {
		line := fmt.Sprintf("%s  - %2d +", padRight(r.label, 8), r.count)
		if r.field == o.field {
			b.WriteString(overlayActiveStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(overlayMutedStyle.Render(fmt.Sprintf("up to %d of each", search.MaxGuests)))
	b.WriteString("\n")
	b.WriteString(overlayMutedStyle.Render("↑/↓ field  |  ←/→ count  |  enter apply  |  esc cancel"))

	return overlayBoxStyle.Render(b.String())
}
