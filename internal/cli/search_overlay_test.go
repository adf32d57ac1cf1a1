package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupancyOverlay_Navigation(t *testing.T) {
	o := newOccupancyOverlay(search.DefaultOccupancy())
	assert.Equal(t, occupancyAdults, o.field)

	updated, _ := o.Update(tea.KeyMsg{Type: tea.KeyDown})
	o = updated.(*occupancyOverlay)
	assert.Equal(t, occupancyKids, o.field)

	// Can't go past the last field
	updated, _ = o.Update(tea.KeyMsg{Type: tea.KeyDown})
	o = updated.(*occupancyOverlay)
	assert.Equal(t, occupancyKids, o.field)

	updated, _ = o.Update(tea.KeyMsg{Type: tea.KeyUp})
	o = updated.(*occupancyOverlay)
	assert.Equal(t, occupancyAdults, o.field)
}

func TestOccupancyOverlay_Counts(t *testing.T) {
	o := newOccupancyOverlay(search.DefaultOccupancy())

	o.Update(tea.KeyMsg{Type: tea.KeyRight})
	o.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	assert.Equal(t, 4, o.occupancy.Adults)

	o.Update(tea.KeyMsg{Type: tea.KeyDown})
	o.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	assert.Equal(t, 0, o.occupancy.Kids, "kids never go below zero")

	o.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, o.occupancy.Kids)
}

func TestOccupancyOverlay_ClampsAtMax(t *testing.T) {
	o := newOccupancyOverlay(search.Occupancy{Adults: search.MaxGuests})

	o.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, search.MaxGuests, o.occupancy.Adults)
}

func TestOccupancyOverlay_Apply(t *testing.T) {
	o := newOccupancyOverlay(search.DefaultOccupancy())

	_, cmd := o.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	result, ok := cmd().(overlayResult)
	require.True(t, ok)
	assert.Equal(t, "apply", result.action)
}

func TestOccupancyOverlay_Cancel(t *testing.T) {
	o := newOccupancyOverlay(search.DefaultOccupancy())

	_, cmd := o.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	result, ok := cmd().(overlayResult)
	require.True(t, ok)
	assert.Equal(t, "cancel", result.action)
}

func TestOccupancyOverlay_View(t *testing.T) {
	o := newOccupancyOverlay(search.Occupancy{Adults: 3, Kids: 1})

	view := o.View()
	assert.Contains(t, view, "Guests")
	assert.Contains(t, view, "Adults")
	assert.Contains(t, view, "Kids")
	assert.Contains(t, view, " 3 +")
	assert.Contains(t, view, " 1 +")
}
