package jsondb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Document is the decoded top-level JSON object. Array properties are
// collections, object properties are singular resources.
type Document map[string]any

// Item is a single record of a collection or a singular resource.
type Item = map[string]any

// ReadDocument reads and decodes the document at path.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(data)
}

// DecodeDocument decodes raw JSON, rejecting anything that is not an object.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decoding document: top level must be an object")
	}
	return doc, nil
}

// WriteDocument writes doc to path, creating the directory if needed.
func WriteDocument(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// SeedDocument returns the starter document offered when no database exists.
func SeedDocument() Document {
	return Document{
		"rooms": []any{
			Item{"id": float64(1), "name": "Ocean View Double", "city": "Busan", "capacity": float64(2), "price": float64(120000)},
			Item{"id": float64(2), "name": "Family Suite", "city": "Busan", "capacity": float64(4), "price": float64(210000)},
			Item{"id": float64(3), "name": "Hanok Stay", "city": "Jeonju", "capacity": float64(3), "price": float64(150000)},
			Item{"id": float64(4), "name": "Mountain Lodge", "city": "Gangneung", "capacity": float64(6), "price": float64(280000)},
		},
		"bookings": []any{},
		"profile":  Item{"name": "tripbtoz"},
	}
}

// clone deep-copies a decoded JSON value so callers never share maps with
// the store.
func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = clone(val)
		}
		return out
	}
	return v
}

func cloneItem(it Item) Item {
	return clone(it).(map[string]any)
}
