package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/search"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStay() stayExport {
	return stayExport{
		Criteria: search.Criteria{
			Dates:     selection.Selection{CheckIn: "20240310", CheckOut: "20240315"},
			Occupancy: search.Occupancy{Adults: 2, Kids: 1},
		},
		Location:  "/?adult=2&checkIn=20240310&checkOut=20240315&kid=1",
		Generated: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderStayPDF_CreatesFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "stay.pdf")

	require.NoError(t, renderStayPDF(sampleStay(), outPath))

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestStayRows(t *testing.T) {
	rows := sampleStay().stayRows()

	assert.Equal(t, [2]string{"Check-in", "2024.03.10 (Sunday)"}, rows[0])
	assert.Equal(t, [2]string{"Check-out", "2024.03.15 (Friday)"}, rows[1])
	assert.Equal(t, [2]string{"Nights", "5"}, rows[2])
	assert.Equal(t, [2]string{"Kids", "1"}, rows[4])
}

func TestDayLabelEmpty(t *testing.T) {
	assert.Equal(t, "-", dayLabel(datekey.Key("")))
}
