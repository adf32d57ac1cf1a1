package jsondb

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultPageLimit is the page size used when _page is given without _limit.
const DefaultPageLimit = 10

// Op is a filter comparison.
type Op string

const (
	OpEq   Op = "eq"
	OpNe   Op = "ne"
	OpGte  Op = "gte"
	OpLte  Op = "lte"
	OpLike Op = "like"
)

// Filter matches one field (dot path) against one or more values. Multiple
// values are alternatives.
type Filter struct {
	Field  string
	Op     Op
	Values []string
	like   []*regexp.Regexp
}

// Query is a parsed collection query.
type Query struct {
	Filters []Filter
	Text    string
	Sort    []string
	Order   []string
	Page    int
	Limit   int
	Start   int
	End     int
	sliced  bool
}

// Paginated reports whether the query asked for a page or slice.
func (q Query) Paginated() bool { return q.Page > 0 || q.sliced }

// ParseQuery reads json-server style parameters: field=value, field_gte,
// field_lte, field_ne, field_like, q, _sort, _order, _page, _limit, _start,
// _end. Unknown underscore parameters are ignored.
func ParseQuery(v url.Values) (Query, error) {
	var q Query
	var err error

	intParam := func(key string) (int, bool, error) {
		raw := v.Get(key)
		if raw == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, false, fmt.Errorf("invalid %s %q", key, raw)
		}
		return n, true, nil
	}

	var hasLimit, hasStart, hasEnd bool
	if q.Page, _, err = intParam("_page"); err != nil {
		return Query{}, err
	}
	if q.Limit, hasLimit, err = intParam("_limit"); err != nil {
		return Query{}, err
	}
	if q.Start, hasStart, err = intParam("_start"); err != nil {
		return Query{}, err
	}
	if q.End, hasEnd, err = intParam("_end"); err != nil {
		return Query{}, err
	}
	if q.Page > 0 && !hasLimit {
		q.Limit = DefaultPageLimit
	}
	q.sliced = q.Page == 0 && (hasStart || hasEnd || hasLimit)
	if q.sliced && !hasEnd {
		if hasLimit {
			q.End = q.Start + q.Limit
		} else {
			q.End = -1
		}
	}

	q.Text = v.Get("q")
	q.Sort = splitList(v.Get("_sort"))
	q.Order = splitList(v.Get("_order"))
	for _, o := range q.Order {
		if o != "asc" && o != "desc" {
			return Query{}, fmt.Errorf("invalid _order %q", o)
		}
	}

	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "q" || strings.HasPrefix(key, "_") {
			continue
		}
		f := Filter{Field: key, Op: OpEq, Values: v[key]}
		for _, op := range []Op{OpGte, OpLte, OpNe, OpLike} {
			suffix := "_" + string(op)
			if strings.HasSuffix(key, suffix) {
				f.Field = strings.TrimSuffix(key, suffix)
				f.Op = op
				break
			}
		}
		if f.Op == OpLike {
			for _, raw := range f.Values {
				re, err := regexp.Compile("(?i)" + raw)
				if err != nil {
					return Query{}, fmt.Errorf("invalid %s pattern %q: %w", key, raw, err)
				}
				f.like = append(f.like, re)
			}
		}
		q.Filters = append(q.Filters, f)
	}
	return q, nil
}

// Result is the outcome of applying a query.
type Result struct {
	Items []Item
	Total int
	Page  int
	Limit int
}

// LastPage returns the final page number for a paginated result.
func (r Result) LastPage() int {
	if r.Limit <= 0 {
		return 1
	}
	last := (r.Total + r.Limit - 1) / r.Limit
	if last < 1 {
		return 1
	}
	return last
}

// Apply filters, sorts and paginates items. Total counts matches before
// pagination.
func (q Query) Apply(items []Item) Result {
	matched := make([]Item, 0, len(items))
	for _, it := range items {
		if q.matches(it) {
			matched = append(matched, it)
		}
	}

	if len(q.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for n, field := range q.Sort {
				c := compareValues(lookup(matched[i], field), lookup(matched[j], field))
				if c == 0 {
					continue
				}
				if n < len(q.Order) && q.Order[n] == "desc" {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	res := Result{Total: len(matched), Page: q.Page, Limit: q.Limit}
	switch {
	case q.Page > 0:
		start := (q.Page - 1) * q.Limit
		res.Items = window(matched, start, start+q.Limit)
	case q.sliced:
		end := q.End
		if end < 0 {
			end = len(matched)
		}
		res.Items = window(matched, q.Start, end)
	default:
		res.Items = matched
	}
	return res
}

func window(items []Item, start, end int) []Item {
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	if end < start {
		end = start
	}
	return items[start:end]
}

func (q Query) matches(it Item) bool {
	if q.Text != "" && !containsText(it, strings.ToLower(q.Text)) {
		return false
	}
	for _, f := range q.Filters {
		if !f.matches(it) {
			return false
		}
	}
	return true
}

func (f Filter) matches(it Item) bool {
	v, ok := lookupOK(it, f.Field)

	switch f.Op {
	case OpNe:
		for _, want := range f.Values {
			if ok && valueString(v) == want {
				return false
			}
		}
		return true
	case OpGte, OpLte:
		if !ok {
			return false
		}
		for _, want := range f.Values {
			c := compareValues(v, want)
			if (f.Op == OpGte && c < 0) || (f.Op == OpLte && c > 0) {
				return false
			}
		}
		return true
	case OpLike:
		if !ok {
			return false
		}
		s := valueString(v)
		for _, re := range f.like {
			if re.MatchString(s) {
				return true
			}
		}
		return false
	}

	if !ok {
		return false
	}
	for _, want := range f.Values {
		if valueString(v) == want {
			return true
		}
	}
	return false
}

func containsText(v any, needle string) bool {
	switch t := v.(type) {
	case map[string]any:
		for _, val := range t {
			if containsText(val, needle) {
				return true
			}
		}
		return false
	case []any:
		for _, val := range t {
			if containsText(val, needle) {
				return true
			}
		}
		return false
	case nil:
		return false
	}
	return strings.Contains(strings.ToLower(valueString(v)), needle)
}

func lookup(it Item, path string) any {
	v, _ := lookupOK(it, path)
	return v
}

func lookupOK(it Item, path string) (any, bool) {
	var cur any = it
	for _, part := range strings.Split(path, ".") {
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[part]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// compareValues orders numbers numerically and everything else as strings.
func compareValues(a, b any) int {
	af, aok := number(a)
	bf, bok := number(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(valueString(a), valueString(b))
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	}
	return idString(v)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
