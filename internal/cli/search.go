package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/blackout"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/search"
	"github.com/spf13/cobra"
)

// searchOptions holds the raw flag values of the search command.
type searchOptions struct {
	query      string
	checkIn    string
	checkOut   string
	adults     int
	kids       int
	adultsSet  bool
	kidsSet    bool
	path       string
	months     int
	blackout   []string
	exportPath string
}

var searchCmd = LeafCommand{
	Use:   "search",
	Short: "Pick dates and guests, then print the search location",
	StrFlags: []StringFlag{
		{Name: "query", Usage: "start from a location query (e.g. checkIn=20240310&checkOut=20240315&adult=2)"},
		{Name: "check-in", Usage: "check-in date (yyyyMMdd, yyyy-MM-dd, today, next friday, ...)"},
		{Name: "check-out", Usage: "check-out date"},
		{Name: "path", Usage: "base path of the search page", Default: "/"},
		{Name: "export", Usage: "write a stay summary PDF to this path"},
	},
	IntFlags: []IntFlag{
		{Name: "adult", Usage: "number of adults", Default: search.DefaultAdults},
		{Name: "kid", Usage: "number of kids", Default: search.DefaultKids},
		{Name: "months", Usage: "number of months shown in the calendar", Default: 12},
	},
	ListFlags: []StringSliceFlag{
		{Name: "blackout", Usage: "RRULE of unavailable days (repeatable, e.g. FREQ=WEEKLY;BYDAY=MO)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := searchOptions{}
		opts.query, _ = cmd.Flags().GetString("query")
		opts.checkIn, _ = cmd.Flags().GetString("check-in")
		opts.checkOut, _ = cmd.Flags().GetString("check-out")
		opts.path, _ = cmd.Flags().GetString("path")
		opts.exportPath, _ = cmd.Flags().GetString("export")
		opts.adults, _ = cmd.Flags().GetInt("adult")
		opts.kids, _ = cmd.Flags().GetInt("kid")
		opts.months, _ = cmd.Flags().GetInt("months")
		opts.blackout, _ = cmd.Flags().GetStringSlice("blackout")
		opts.adultsSet = cmd.Flags().Changed("adult")
		opts.kidsSet = cmd.Flags().Changed("kid")

		return runSearch(cmd, opts, time.Now)
	},
}.Build()

func runSearch(cmd *cobra.Command, opts searchOptions, nowFn func() time.Time) error {
	now := nowFn()
	today := datekey.FromTime(now)

	criteria, err := resolveCriteria(opts, now)
	if err != nil {
		return err
	}
	if criteria.Dates.CheckIn != "" && criteria.Dates.CheckIn.Before(today) {
		return fmt.Errorf("check-in %s is in the past", criteria.Dates.CheckIn.Display())
	}
	if opts.exportPath != "" && !criteria.Dates.Complete() {
		return fmt.Errorf("--export needs both --check-in and --check-out")
	}

	if opts.months < 1 {
		return fmt.Errorf("invalid --months value %d (expected at least 1)", opts.months)
	}
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, opts.months, -1)
	blocked, err := blackout.Expand(opts.blackout, from, to)
	if err != nil {
		return err
	}

	m, err := newSearchModel(searchModelConfig{
		start:    from,
		months:   opts.months,
		today:    today,
		blocked:  blocked,
		criteria: criteria,
		width:    120,
		height:   40,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Non-TTY fallback: print the calendar and submit the criteria as given
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		if err := printStaticSearch(out, m); err != nil {
			return err
		}
	} else {
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithOutput(out))
		final, err := p.Run()
		if err != nil {
			return err
		}
		m = final.(searchModel)
		if !m.submitted {
			return nil
		}
	}

	criteria = m.criteria()
	nav := &search.WriterNavigator{W: out}
	if err := search.Submit(nav, opts.path, criteria); err != nil {
		return err
	}

	if opts.exportPath != "" {
		if !criteria.Dates.Complete() {
			return fmt.Errorf("no stay to export: pick both dates")
		}
		stay := stayExport{Criteria: criteria, Location: nav.Last, Generated: now}
		if err := renderStayPDF(stay, opts.exportPath); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Exported stay to %s\n", Primary(opts.exportPath))
	}
	return nil
}

// resolveCriteria merges the --query location with the explicit flags, which
// win over it.
func resolveCriteria(opts searchOptions, now time.Time) (search.Criteria, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(opts.query, "?"))
	if err != nil {
		return search.Criteria{}, fmt.Errorf("invalid --query: %w", err)
	}
	c, err := search.FromQueryAt(q, now)
	if err != nil {
		return search.Criteria{}, fmt.Errorf("invalid --query: %w", err)
	}

	if opts.checkIn != "" {
		k, err := datekey.ParseAt(opts.checkIn, now)
		if err != nil {
			return search.Criteria{}, fmt.Errorf("invalid --check-in: %w", err)
		}
		c.Dates.CheckIn = k
	}
	if opts.checkOut != "" {
		k, err := datekey.ParseAt(opts.checkOut, now)
		if err != nil {
			return search.Criteria{}, fmt.Errorf("invalid --check-out: %w", err)
		}
		c.Dates.CheckOut = k
	}
	if err := c.Dates.Validate(); err != nil {
		return search.Criteria{}, err
	}

	if opts.adultsSet {
		c.Occupancy.Adults = opts.adults
	}
	if opts.kidsSet {
		c.Occupancy.Kids = opts.kids
	}
	c.Occupancy = c.Occupancy.Clamp()
	return c, nil
}
