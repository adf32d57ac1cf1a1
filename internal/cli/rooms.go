package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/search"
	"github.com/spf13/cobra"
)

const (
	defaultAPI     = "http://localhost:4000"
	roomsTimeout   = 10 * time.Second
	roomNameWidth  = 22
	roomCityWidth  = 12
	roomFieldWidth = 6
)

// roomsOptions holds the raw flag values of the rooms command.
type roomsOptions struct {
	api    string
	city   string
	adults int
	kids   int
	page   int
	limit  int
}

// room is the subset of a rooms item the listing prints.
type room struct {
	ID       any     `json:"id"`
	Name     string  `json:"name"`
	City     string  `json:"city"`
	Capacity int     `json:"capacity"`
	Price    float64 `json:"price"`
}

var roomsCmd = LeafCommand{
	Use:   "rooms",
	Short: "List rooms on a running mock server that fit the guests",
	StrFlags: []StringFlag{
		{Name: "api", Usage: "base URL of the mock server", Default: defaultAPI},
		{Name: "city", Usage: "only rooms in this city"},
	},
	IntFlags: []IntFlag{
		{Name: "adult", Usage: "number of adults", Default: search.DefaultAdults},
		{Name: "kid", Usage: "number of kids", Default: search.DefaultKids},
		{Name: "page", Usage: "page of results (0 lists everything)"},
		{Name: "limit", Usage: "rooms per page", Default: 10},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := roomsOptions{}
		opts.api, _ = cmd.Flags().GetString("api")
		opts.city, _ = cmd.Flags().GetString("city")
		opts.adults, _ = cmd.Flags().GetInt("adult")
		opts.kids, _ = cmd.Flags().GetInt("kid")
		opts.page, _ = cmd.Flags().GetInt("page")
		opts.limit, _ = cmd.Flags().GetInt("limit")

		return runRooms(cmd, opts, http.DefaultClient)
	},
}.Build()

// roomsQuery validates the API base and builds the collection filters.
func roomsQuery(opts roomsOptions) (string, url.Values, error) {
	base := strings.TrimRight(opts.api, "/")
	u, err := url.Parse(base)
	if err != nil {
		return "", nil, fmt.Errorf("invalid --api: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", nil, fmt.Errorf("invalid --api %q (expected e.g. %s)", opts.api, defaultAPI)
	}

	occ := search.Occupancy{Adults: opts.adults, Kids: opts.kids}.Clamp()
	q := url.Values{}
	if occ.Total() > 0 {
		q.Set("capacity_gte", strconv.Itoa(occ.Total()))
	}
	if opts.city != "" {
		q.Set("city", opts.city)
	}
	q.Set("_sort", "price")
	if opts.page > 0 {
		q.Set("_page", strconv.Itoa(opts.page))
		if opts.limit > 0 {
			q.Set("_limit", strconv.Itoa(opts.limit))
		}
	}
	return base, q, nil
}

func runRooms(cmd *cobra.Command, opts roomsOptions, hc *http.Client) error {
	base, q, err := roomsQuery(opts)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, roomsTimeout)
	defer cancel()

	var rooms []room
	resp, err := resty.NewWithClient(hc).
		SetBaseURL(base).
		R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParamsFromValues(q).
		SetResult(&rooms).
		Get("/rooms")
	if err != nil {
		return fmt.Errorf("fetching rooms: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetching rooms: %s", resp.Status())
	}

	out := cmd.OutOrStdout()
	if len(rooms) == 0 {
		_, _ = fmt.Fprintln(out, Silent("No rooms found."))
		return nil
	}

	header := padRight("ID", roomFieldWidth) + padRight("NAME", roomNameWidth) +
		padRight("CITY", roomCityWidth) + padRight("CAP", roomFieldWidth) + "PRICE"
	_, _ = fmt.Fprintln(out, Silent(header))
	for _, r := range rooms {
		_, _ = fmt.Fprintf(out, "%s%s%s%s%s\n",
			padRight(fmt.Sprint(r.ID), roomFieldWidth),
			Primary(padRight(r.Name, roomNameWidth)),
			Text(padRight(r.City, roomCityWidth)),
			Text(padRight(strconv.Itoa(r.Capacity), roomFieldWidth)),
			Text(strconv.FormatFloat(r.Price, 'f', -1, 64)),
		)
	}

	total := len(rooms)
	if n, err := strconv.Atoi(resp.Header().Get("X-Total-Count")); err == nil {
		total = n
	}
	_, _ = fmt.Fprintln(out, Silent(fmt.Sprintf("Showing %d of %d rooms", len(rooms), total)))
	return nil
}
