package jsondb

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDB(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "db.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const fixture = `{
  "rooms": [
    {"id": 1, "name": "Ocean View", "capacity": 2},
    {"id": 2, "name": "Family Suite", "capacity": 4}
  ],
  "tags": [
    {"id": "a1", "label": "sea"}
  ],
  "profile": {"name": "tripbtoz"},
  "version": 3
}`

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenRejectsNonObject(t *testing.T) {
	path := writeDB(t, `[1, 2, 3]`)
	_, err := Open(path)
	assert.Error(t, err)

	path = writeDB(t, `null`)
	_, err = Open(path)
	assert.Error(t, err)
}

func TestResources(t *testing.T) {
	s, err := Open(writeDB(t, fixture))
	require.NoError(t, err)

	assert.Equal(t, []Resource{
		{Name: "profile", Kind: KindObject},
		{Name: "rooms", Kind: KindCollection, Count: 2},
		{Name: "tags", Kind: KindCollection, Count: 1},
		{Name: "version", Kind: KindValue},
	}, s.Resources())
	assert.Equal(t, KindMissing, s.Kind("nope"))
}

func TestListAndGet(t *testing.T) {
	s, err := Open(writeDB(t, fixture))
	require.NoError(t, err)

	items, err := s.List("rooms")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	it, err := s.Get("rooms", "2")
	require.NoError(t, err)
	assert.Equal(t, "Family Suite", it["name"])

	it, err = s.Get("tags", "a1")
	require.NoError(t, err)
	assert.Equal(t, "sea", it["label"])

	_, err = s.Get("rooms", "9")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.List("profile")
	assert.ErrorIs(t, err, ErrNotCollection)

	_, err = s.List("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReturnsCopies(t *testing.T) {
	s, err := Open(writeDB(t, fixture))
	require.NoError(t, err)

	items, err := s.List("rooms")
	require.NoError(t, err)
	items[0]["name"] = "changed"

	it, err := s.Get("rooms", "1")
	require.NoError(t, err)
	assert.Equal(t, "Ocean View", it["name"])
}

func TestInsertNumericID(t *testing.T) {
	path := writeDB(t, fixture)
	s, err := Open(path)
	require.NoError(t, err)

	it, err := s.Insert("rooms", Item{"name": "Loft", "capacity": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, float64(3), it["id"])

	// Persisted to disk
	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.Get("rooms", "3")
	require.NoError(t, err)
	assert.Equal(t, "Loft", got["name"])
}

func TestInsertEmptyCollectionStartsAtOne(t *testing.T) {
	s := New("", Document{"bookings": []any{}})

	it, err := s.Insert("bookings", Item{"roomId": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, float64(1), it["id"])
}

func TestInsertStringIDsGetUUID(t *testing.T) {
	s, err := Open(writeDB(t, fixture))
	require.NoError(t, err)

	it, err := s.Insert("tags", Item{"label": "forest"})
	require.NoError(t, err)

	id, ok := it["id"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}

func TestInsertDuplicateID(t *testing.T) {
	s, err := Open(writeDB(t, fixture))
	require.NoError(t, err)

	_, err = s.Insert("rooms", Item{"id": float64(1), "name": "dup"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = s.Insert("rooms", nil)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestReplaceKeepsID(t *testing.T) {
	s, err := Open(writeDB(t, fixture))
	require.NoError(t, err)

	it, err := s.Replace("rooms", "1", Item{"id": float64(99), "name": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), it["id"])
	assert.Equal(t, "Renamed", it["name"])
	assert.NotContains(t, it, "capacity")

	_, err = s.Replace("rooms", "42", Item{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatchMerges(t *testing.T) {
	s, err := Open(writeDB(t, fixture))
	require.NoError(t, err)

	it, err := s.Patch("rooms", "2", Item{"capacity": float64(5), "id": "x"})
	require.NoError(t, err)
	assert.Equal(t, float64(2), it["id"])
	assert.Equal(t, "Family Suite", it["name"])
	assert.Equal(t, float64(5), it["capacity"])
}

func TestDelete(t *testing.T) {
	path := writeDB(t, fixture)
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Delete("rooms", "1"))
	assert.ErrorIs(t, s.Delete("rooms", "1"), ErrNotFound)

	reopened, err := Open(path)
	require.NoError(t, err)
	items, err := reopened.List("rooms")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0]["id"])
}

func TestObjectOperations(t *testing.T) {
	s, err := Open(writeDB(t, fixture))
	require.NoError(t, err)

	obj, err := s.Object("profile")
	require.NoError(t, err)
	assert.Equal(t, "tripbtoz", obj["name"])

	obj, err = s.PatchObject("profile", Item{"city": "Seoul"})
	require.NoError(t, err)
	assert.Equal(t, "tripbtoz", obj["name"])
	assert.Equal(t, "Seoul", obj["city"])

	obj, err = s.ReplaceObject("profile", Item{"name": "other"})
	require.NoError(t, err)
	assert.Equal(t, Item{"name": "other"}, obj)

	_, err = s.Object("rooms")
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestInMemoryStoreDoesNotWrite(t *testing.T) {
	s := New("", SeedDocument())
	_, err := s.Insert("bookings", Item{"roomId": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, "", s.Path())
}

func TestConcurrentInserts(t *testing.T) {
	s := New("", Document{"bookings": []any{}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Insert("bookings", Item{"guest": "x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := s.List("bookings")
	require.NoError(t, err)
	assert.Len(t, items, 20)

	seen := map[float64]bool{}
	for _, it := range items {
		seen[it["id"].(float64)] = true
	}
	assert.Len(t, seen, 20)
}

func TestWriteDocumentCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")
	require.NoError(t, WriteDocument(path, SeedDocument()))

	doc, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Contains(t, doc, "rooms")
	assert.Contains(t, doc, "bookings")
}
