package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/selection"
)

func (m searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.help.Width = msg.Width
		m.modals.Resize(msg.Width)
		m = m.ensureCursorVisible()
		return m, nil

	case overlayResult:
		return m.handleOverlayResult(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.keys.background(msg) {
			// A full-screen modal owns the keyboard until it closes.
			if m.modals.Locked() {
				return m, nil
			}
			return m.updateBackground(msg)
		}
		if m.modals.IsOpen(modalOccupancy) && m.overlay != nil {
			updated, cmd := m.overlay.Update(msg)
			m.overlay = updated
			return m, cmd
		}
		if m.modals.IsOpen(modalCalendar) {
			return m.updateCalendar(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Pick):
			return m.submit()
		case key.Matches(msg, m.keys.Close):
			return m, tea.Quit
		}
	}
	return m, nil
}

// updateBackground handles the search bar's own keys.
func (m searchModel) updateBackground(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dates):
		m.modals.Open(modalCalendar)
	case key.Matches(msg, m.keys.Guests):
		m.modals.Open(modalOccupancy)
	case key.Matches(msg, m.keys.Focus):
		m.modals.Focus()
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}
	m.footerMsg = ""
	return m.syncOverlay(), nil
}

// updateCalendar handles keys while the calendar modal is open.
func (m searchModel) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m = m.moveCursor(m.cursor.AddDays(-1))
	case key.Matches(msg, m.keys.Right):
		m = m.moveCursor(m.cursor.AddDays(1))
	case key.Matches(msg, m.keys.Up):
		m = m.moveCursor(m.cursor.AddDays(-7))
	case key.Matches(msg, m.keys.Down):
		m = m.moveCursor(m.cursor.AddDays(7))
	case key.Matches(msg, m.keys.PrevMonth):
		m = m.moveCursorMonths(-1)
	case key.Matches(msg, m.keys.NextMonth):
		m = m.moveCursorMonths(1)
	case key.Matches(msg, m.keys.Pick):
		return m.clickDay(m.cursor)
	case key.Matches(msg, m.keys.Next):
		if m.modals.Next() {
			m.footerMsg = ""
		}
		return m.syncOverlay(), nil
	case key.Matches(msg, m.keys.Reset):
		m.machine.Reset(m.reg)
		m.footerMsg = Silent("dates cleared")
	case key.Matches(msg, m.keys.Close):
		m.modals.Close(modalCalendar)
	}
	return m, nil
}

// updateMouse turns a left click on a drawn day into a day click.
func (m searchModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if !m.modals.IsOpen(modalCalendar) {
		return m, nil
	}
	k, ok := m.dayAt(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.cursor = k
	return m.clickDay(k)
}

// clickDay feeds a click on k into the selection machine. Unavailable days
// and stays spanning one are refused.
func (m searchModel) clickDay(k datekey.Key) (tea.Model, tea.Cmd) {
	cell := m.cells[k]
	if cell == nil {
		return m, nil
	}
	if cell.disabled() {
		m.footerMsg = Error(fmt.Sprintf("%s is not available", k.Display()))
		return m, nil
	}

	sel := m.machine.Selection()
	if sel.State() == selection.StateAwaitingEnd && k.After(sel.CheckIn) {
		if blocked, ok := m.firstBlockedNight(sel.CheckIn, k); ok {
			m.footerMsg = Error(fmt.Sprintf("%s is not available", blocked.Display()))
			return m, nil
		}
	}

	switch m.machine.Click(k, m.reg) {
	case selection.Completed:
		sel = m.machine.Selection()
		m.footerMsg = Info(fmt.Sprintf("%s - %s, %d nights", sel.CheckIn.Display(), sel.CheckOut.Display(), sel.Nights()))
		m.modals.Next()
		return m.syncOverlay(), nil
	case selection.Ignored:
		m.footerMsg = Silent("pick a check-out date after " + k.Display())
	default:
		m.footerMsg = Silent("pick a check-out date")
	}
	return m, nil
}

// handleOverlayResult processes the result when the guest picker completes.
func (m searchModel) handleOverlayResult(result overlayResult) (tea.Model, tea.Cmd) {
	if result.err != nil {
		m.footerMsg = Error(result.err.Error())
	}
	if result.action == "apply" {
		if o, ok := m.overlay.(*occupancyOverlay); ok {
			m.occupancy = o.occupancy
			m.footerMsg = Info(m.occupancy.String())
		}
	}
	m.modals.Close(modalOccupancy)
	return m.syncOverlay(), nil
}

// syncOverlay keeps the guest picker in step with the occupancy modal.
func (m searchModel) syncOverlay() searchModel {
	switch {
	case m.modals.IsOpen(modalOccupancy) && m.overlay == nil:
		m.overlay = newOccupancyOverlay(m.occupancy)
	case !m.modals.IsOpen(modalOccupancy):
		m.overlay = nil
	}
	return m
}

func (m searchModel) submit() (tea.Model, tea.Cmd) {
	for k := modalKind(0); k < modalCount; k++ {
		m.modals.Close(k)
	}
	m.overlay = nil
	m.submitted = true
	return m, tea.Quit
}
