package selection

import (
	"strings"

	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/datekey"
)

// Tag is a visual marker on a rendered day cell.
type Tag uint8

const (
	TagStart Tag = 1 << iota
	TagEnd
	TagSelected
	TagStartOnly
)

// AllTags is the union of every tag.
const AllTags = TagStart | TagEnd | TagSelected | TagStartOnly

var tagNames = []struct {
	tag  Tag
	name string
}{
	{TagStart, "start"},
	{TagEnd, "end"},
	{TagSelected, "selected"},
	{TagStartOnly, "start_only"},
}

// Has reports whether every tag in o is set in t.
func (t Tag) Has(o Tag) bool { return o != 0 && t&o == o }

func (t Tag) String() string {
	var names []string
	for _, tn := range tagNames {
		if t&tn.tag != 0 {
			names = append(names, tn.name)
		}
	}
	return strings.Join(names, " ")
}

// Cell is an opaque handle to a rendered day cell.
type Cell interface {
	AddTags(Tag)
	RemoveTags(Tag)
}

// Registry maps day keys to their rendered cells. It is owned by the view and
// handed to the Machine on every click.
type Registry map[datekey.Key]Cell

// Add tags the cell for k. Missing cells are skipped.
func (r Registry) Add(k datekey.Key, t Tag) {
	if c, ok := r[k]; ok && c != nil {
		c.AddTags(t)
	}
}

// Remove untags the cell for k. Missing cells are skipped.
func (r Registry) Remove(k datekey.Key, t Tag) {
	if c, ok := r[k]; ok && c != nil {
		c.RemoveTags(t)
	}
}

// Clear removes every tag from every registered cell.
func (r Registry) Clear() {
	for _, c := range r {
		if c != nil {
			c.RemoveTags(AllTags)
		}
	}
}

// TagCell is a minimal Cell that records its tags. Views embed it in their
// own cell types.
type TagCell struct {
	Tags Tag
}

func (c *TagCell) AddTags(t Tag)    { c.Tags |= t }
func (c *TagCell) RemoveTags(t Tag) { c.Tags &^= t }
