package cli

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/search"
)

var (
	pdfHeaderColor = props.Color{Red: 50, Green: 50, Blue: 50}
	pdfMutedColor  = props.Color{Red: 120, Green: 120, Blue: 120}
	pdfLineColor   = props.Color{Red: 200, Green: 200, Blue: 200}
)

// stayExport is the content of a stay summary.
type stayExport struct {
	Criteria  search.Criteria
	Location  string
	Generated time.Time
}

// stayRows returns the label/value pairs printed in the summary.
func (s stayExport) stayRows() [][2]string {
	dates := s.Criteria.Dates
	return [][2]string{
		{"Check-in", dayLabel(dates.CheckIn)},
		{"Check-out", dayLabel(dates.CheckOut)},
		{"Nights", fmt.Sprintf("%d", dates.Nights())},
		{"Adults", fmt.Sprintf("%d", s.Criteria.Occupancy.Adults)},
		{"Kids", fmt.Sprintf("%d", s.Criteria.Occupancy.Kids)},
	}
}

func dayLabel(k datekey.Key) string {
	if !k.Valid() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", k.Display(), k.Time().Weekday())
}

// renderStayPDF writes a one-page stay summary to outputPath.
func renderStayPDF(data stayExport, outputPath string) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "Stay summary", props.Text{
			Style: fontstyle.Bold,
			Size:  16,
			Color: &pdfHeaderColor,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Generated "+data.Generated.Format("2006.01.02 15:04"), props.Text{
			Size:  10,
			Color: &pdfMutedColor,
		}),
	)
	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))
	m.AddRow(4)

	for _, row := range data.stayRows() {
		m.AddRow(8,
			text.NewCol(4, row[0], props.Text{
				Style: fontstyle.Bold,
				Size:  11,
				Color: &pdfHeaderColor,
			}),
			text.NewCol(8, row[1], props.Text{
				Size:  11,
				Align: align.Right,
			}),
		)
	}

	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))
	m.AddRow(8,
		text.NewCol(12, data.Location, props.Text{
			Size:  9,
			Color: &pdfMutedColor,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generating PDF: %w", err)
	}

	return doc.Save(outputPath)
}
