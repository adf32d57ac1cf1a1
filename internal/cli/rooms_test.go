package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/jsondb"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/mockserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoomsAPI(t *testing.T) string {
	t.Helper()
	store := jsondb.New("", jsondb.SeedDocument())
	ts := httptest.NewServer(mockserver.New(store).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func execRooms(t *testing.T, opts roomsOptions) (string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	cmd := roomsCmd
	cmd.SetOut(stdout)
	err := runRooms(cmd, opts, http.DefaultClient)
	return stdout.String(), err
}

func TestRoomsQuery(t *testing.T) {
	base, q, err := roomsQuery(roomsOptions{api: "http://localhost:4000/", adults: 2, kids: 1, city: "Busan", page: 2, limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000", base)
	assert.Equal(t, "_limit=5&_page=2&_sort=price&capacity_gte=3&city=Busan", q.Encode())
}

func TestRoomsQueryNoGuests(t *testing.T) {
	_, q, err := roomsQuery(roomsOptions{api: "http://localhost:4000"})
	require.NoError(t, err)
	assert.Equal(t, "_sort=price", q.Encode())
}

func TestRoomsQueryInvalidAPI(t *testing.T) {
	_, _, err := roomsQuery(roomsOptions{api: "localhost"})
	assert.ErrorContains(t, err, "invalid --api")
}

func TestRoomsSendsFiltersAndAccept(t *testing.T) {
	var gotPath, gotQuery, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotAccept = r.URL.Path, r.URL.RawQuery, r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Total-Count", "7")
		_, _ = w.Write([]byte(`[{"id": 9, "name": "Loft", "city": "Seoul", "capacity": 2, "price": 99000}]`))
	}))
	defer ts.Close()

	stdout, err := execRooms(t, roomsOptions{api: ts.URL + "/", adults: 2, city: "Seoul"})

	require.NoError(t, err)
	assert.Equal(t, "/rooms", gotPath)
	assert.Equal(t, "_sort=price&capacity_gte=2&city=Seoul", gotQuery)
	assert.Equal(t, "application/json", gotAccept)
	assert.Contains(t, stdout, "Loft")
	assert.Contains(t, stdout, "99000")
	assert.Contains(t, stdout, "Showing 1 of 7 rooms")
}

func TestRoomsFitGuests(t *testing.T) {
	api := setupRoomsAPI(t)

	stdout, err := execRooms(t, roomsOptions{api: api, adults: 3, kids: 1})

	require.NoError(t, err)
	assert.Contains(t, stdout, "Family Suite")
	assert.Contains(t, stdout, "Mountain Lodge")
	assert.NotContains(t, stdout, "Ocean View Double")
	assert.NotContains(t, stdout, "Hanok Stay")
	assert.Contains(t, stdout, "Showing 2 of 2 rooms")
	assert.Less(t, strings.Index(stdout, "Family Suite"), strings.Index(stdout, "Mountain Lodge"))
}

func TestRoomsPaged(t *testing.T) {
	api := setupRoomsAPI(t)

	stdout, err := execRooms(t, roomsOptions{api: api, adults: 1, page: 1, limit: 2})

	require.NoError(t, err)
	assert.Contains(t, stdout, "Ocean View Double")
	assert.Contains(t, stdout, "Hanok Stay")
	assert.Contains(t, stdout, "Showing 2 of 4 rooms")
}

func TestRoomsByCity(t *testing.T) {
	api := setupRoomsAPI(t)

	stdout, err := execRooms(t, roomsOptions{api: api, adults: 2, city: "Jeonju"})

	require.NoError(t, err)
	assert.Contains(t, stdout, "Hanok Stay")
	assert.Contains(t, stdout, "Showing 1 of 1 rooms")
}

func TestRoomsNoneFound(t *testing.T) {
	api := setupRoomsAPI(t)

	stdout, err := execRooms(t, roomsOptions{api: api, adults: 16})

	require.NoError(t, err)
	assert.Contains(t, stdout, "No rooms found.")
}

func TestRoomsServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := execRooms(t, roomsOptions{api: ts.URL, adults: 2})

	assert.ErrorContains(t, err, "500")
}

func TestRoomsUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	api := ts.URL
	ts.Close()

	_, err := execRooms(t, roomsOptions{api: api, adults: 2})

	assert.ErrorContains(t, err, "fetching rooms")
}
