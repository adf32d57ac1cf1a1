package search

import (
	"fmt"
	"io"
	"net/url"
)

// Navigator performs a client-side navigation to basePath with the given
// query parameters.
type Navigator interface {
	Navigate(basePath string, query url.Values) error
}

// Location renders basePath with the encoded query appended.
func Location(basePath string, query url.Values) string {
	if basePath == "" {
		basePath = "/"
	}
	if len(query) == 0 {
		return basePath
	}
	return basePath + "?" + query.Encode()
}

// Submit composes c and navigates to basePath with it.
func Submit(nav Navigator, basePath string, c Criteria) error {
	return nav.Navigate(basePath, Compose(c))
}

// WriterNavigator prints each location on its own line.
type WriterNavigator struct {
	W    io.Writer
	Last string
}

func (n *WriterNavigator) Navigate(basePath string, query url.Values) error {
	n.Last = Location(basePath, query)
	_, err := fmt.Fprintln(n.W, n.Last)
	return err
}
