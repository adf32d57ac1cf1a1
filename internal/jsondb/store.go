package jsondb

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotCollection = errors.New("not a collection")
	ErrNotObject     = errors.New("not an object")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrInvalidItem   = errors.New("invalid item")
)

// Kind classifies a top-level property.
type Kind int

const (
	KindMissing Kind = iota
	KindCollection
	KindObject
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindObject:
		return "object"
	case KindValue:
		return "value"
	}
	return "missing"
}

// Resource describes one top-level property.
type Resource struct {
	Name  string
	Kind  Kind
	Count int
}

// Store is a JSON document held in memory and written back to disk after
// every mutation. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  Document
}

// Open loads the document at path.
func Open(path string) (*Store, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, doc: doc}, nil
}

// New wraps doc. An empty path keeps the store in memory only.
func New(path string, doc Document) *Store {
	if doc == nil {
		doc = Document{}
	}
	return &Store{path: path, doc: clone(map[string]any(doc)).(map[string]any)}
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string { return s.path }

// Resources lists the top-level properties sorted by name.
func (s *Store) Resources() []Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Resource, 0, len(s.doc))
	for name, v := range s.doc {
		r := Resource{Name: name, Kind: kindOf(v)}
		if arr, ok := v.([]any); ok {
			r.Count = len(arr)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Kind reports what the property name holds.
func (s *Store) Kind(name string) Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.doc[name]
	if !ok {
		return KindMissing
	}
	return kindOf(v)
}

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(map[string]any(s.doc)).(map[string]any)
}

// List returns a copy of every item in the collection.
func (s *Store) List(name string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	arr, err := s.collection(name)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(arr))
	for _, v := range arr {
		if it, ok := v.(map[string]any); ok {
			items = append(items, cloneItem(it))
		}
	}
	return items, nil
}

// Get returns the item with the given id.
func (s *Store) Get(name, id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	arr, err := s.collection(name)
	if err != nil {
		return nil, err
	}
	i := indexOf(arr, id)
	if i < 0 {
		return nil, fmt.Errorf("%s/%s: %w", name, id, ErrNotFound)
	}
	return cloneItem(arr[i].(map[string]any)), nil
}

// Insert appends item to the collection, assigning an id when it has none.
// Collections keyed by numbers get max+1, anything else gets a UUID.
func (s *Store) Insert(name string, item Item) (Item, error) {
	if item == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	arr, err := s.collection(name)
	if err != nil {
		return nil, err
	}

	it := cloneItem(item)
	if id, ok := it["id"]; ok && id != nil {
		if indexOf(arr, idString(id)) >= 0 {
			return nil, fmt.Errorf("%s/%s: %w", name, idString(id), ErrDuplicateID)
		}
	} else {
		it["id"] = nextID(arr)
	}

	s.doc[name] = append(arr, it)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return cloneItem(it), nil
}

// Replace swaps the item with the given id for item, keeping the id.
func (s *Store) Replace(name, id string, item Item) (Item, error) {
	return s.update(name, id, func(old Item) Item {
		it := cloneItem(item)
		it["id"] = old["id"]
		return it
	})
}

// Patch merges the top-level fields of patch into the item. The id is kept.
func (s *Store) Patch(name, id string, patch Item) (Item, error) {
	return s.update(name, id, func(old Item) Item {
		for k, v := range patch {
			if k == "id" {
				continue
			}
			old[k] = clone(v)
		}
		return old
	})
}

func (s *Store) update(name, id string, fn func(old Item) Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr, err := s.collection(name)
	if err != nil {
		return nil, err
	}
	i := indexOf(arr, id)
	if i < 0 {
		return nil, fmt.Errorf("%s/%s: %w", name, id, ErrNotFound)
	}

	updated := fn(cloneItem(arr[i].(map[string]any)))
	arr[i] = updated
	if err := s.persist(); err != nil {
		return nil, err
	}
	return cloneItem(updated), nil
}

// Delete removes the item with the given id.
func (s *Store) Delete(name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	arr, err := s.collection(name)
	if err != nil {
		return err
	}
	i := indexOf(arr, id)
	if i < 0 {
		return fmt.Errorf("%s/%s: %w", name, id, ErrNotFound)
	}

	out := make([]any, 0, len(arr)-1)
	out = append(out, arr[:i]...)
	out = append(out, arr[i+1:]...)
	s.doc[name] = out
	return s.persist()
}

// Object returns the singular resource name.
func (s *Store) Object(name string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, err := s.object(name)
	if err != nil {
		return nil, err
	}
	return cloneItem(obj), nil
}

// ReplaceObject overwrites the singular resource name.
func (s *Store) ReplaceObject(name string, item Item) (Item, error) {
	if item == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.object(name); err != nil {
		return nil, err
	}
	s.doc[name] = cloneItem(item)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return cloneItem(item), nil
}

// PatchObject merges patch into the singular resource name.
func (s *Store) PatchObject(name string, patch Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.object(name)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		obj[k] = clone(v)
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return cloneItem(obj), nil
}

func (s *Store) collection(name string) ([]any, error) {
	v, ok := s.doc[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotCollection)
	}
	return arr, nil
}

func (s *Store) object(name string) (map[string]any, error) {
	v, ok := s.doc[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotObject)
	}
	return obj, nil
}

// persist must be called with the write lock held.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	if err := WriteDocument(s.path, s.doc); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

func kindOf(v any) Kind {
	switch v.(type) {
	case []any:
		return KindCollection
	case map[string]any:
		return KindObject
	}
	return KindValue
}

func indexOf(arr []any, id string) int {
	for i, v := range arr {
		it, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if raw, ok := it["id"]; ok && idString(raw) == id {
			return i
		}
	}
	return -1
}

func nextID(arr []any) any {
	max := 0.0
	for _, v := range arr {
		it, ok := v.(map[string]any)
		if !ok {
			continue
		}
		n, ok := it["id"].(float64)
		if !ok || n != math.Trunc(n) {
			return uuid.New().String()
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return fmt.Sprint(v)
}
