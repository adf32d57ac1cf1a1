package jsondb

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rooms() []Item {
	return []Item{
		{"id": float64(1), "name": "Ocean View", "city": "Busan", "capacity": float64(2), "host": Item{"name": "Kim"}},
		{"id": float64(2), "name": "Family Suite", "city": "Busan", "capacity": float64(4), "host": Item{"name": "Lee"}},
		{"id": float64(3), "name": "Hanok Stay", "city": "Jeonju", "capacity": float64(3), "host": Item{"name": "Park"}},
		{"id": float64(4), "name": "Mountain Lodge", "city": "Gangneung", "capacity": float64(6), "host": Item{"name": "Kim"}},
	}
}

func apply(t *testing.T, raw string) Result {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := ParseQuery(v)
	require.NoError(t, err)
	return q.Apply(rooms())
}

func ids(items []Item) []float64 {
	out := make([]float64, 0, len(items))
	for _, it := range items {
		out = append(out, it["id"].(float64))
	}
	return out
}

func TestQueryNoParams(t *testing.T) {
	res := apply(t, "")
	assert.Equal(t, []float64{1, 2, 3, 4}, ids(res.Items))
	assert.Equal(t, 4, res.Total)
}

func TestQueryEquality(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, ids(apply(t, "city=Busan").Items))
	assert.Equal(t, []float64{2}, ids(apply(t, "capacity=4").Items))
	assert.Equal(t, []float64{1, 3}, ids(apply(t, "id=1&id=3").Items))
}

func TestQueryNestedField(t *testing.T) {
	assert.Equal(t, []float64{1, 4}, ids(apply(t, "host.name=Kim").Items))
}

func TestQueryOperators(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 4}, ids(apply(t, "capacity_gte=3").Items))
	assert.Equal(t, []float64{1, 3}, ids(apply(t, "capacity_lte=3").Items))
	assert.Equal(t, []float64{3, 4}, ids(apply(t, "city_ne=Busan").Items))
	assert.Equal(t, []float64{1, 4}, ids(apply(t, "name_like=^(ocean|mountain)").Items))
}

func TestQueryFullText(t *testing.T) {
	assert.Equal(t, []float64{3}, ids(apply(t, "q=hanok").Items))
	assert.Equal(t, []float64{3}, ids(apply(t, "q=park").Items))
}

func TestQuerySort(t *testing.T) {
	assert.Equal(t, []float64{4, 2, 3, 1}, ids(apply(t, "_sort=capacity&_order=desc").Items))
	assert.Equal(t, []float64{1, 2, 4, 3}, ids(apply(t, "_sort=city,capacity&_order=asc,asc").Items))
}

func TestQueryPage(t *testing.T) {
	res := apply(t, "_page=2&_limit=3")
	assert.Equal(t, []float64{4}, ids(res.Items))
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.LastPage())

	res = apply(t, "_page=1")
	assert.Equal(t, DefaultPageLimit, res.Limit)
	assert.Len(t, res.Items, 4)

	res = apply(t, "_page=5&_limit=2")
	assert.Empty(t, res.Items)
}

func TestQuerySlice(t *testing.T) {
	assert.Equal(t, []float64{2, 3}, ids(apply(t, "_start=1&_end=3").Items))
	assert.Equal(t, []float64{2, 3}, ids(apply(t, "_start=1&_limit=2").Items))
	assert.Equal(t, []float64{1, 2}, ids(apply(t, "_limit=2").Items))
	assert.Equal(t, []float64{3, 4}, ids(apply(t, "_start=2").Items))
}

func TestQueryPaginated(t *testing.T) {
	v := url.Values{"city": {"Busan"}}
	q, err := ParseQuery(v)
	require.NoError(t, err)
	assert.False(t, q.Paginated())

	v.Set("_limit", "1")
	q, err = ParseQuery(v)
	require.NoError(t, err)
	assert.True(t, q.Paginated())
}

func TestParseQueryErrors(t *testing.T) {
	for _, raw := range []string{"_page=x", "_limit=-1", "_order=sideways", "name_like=("} {
		v, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = ParseQuery(v)
		assert.Error(t, err, raw)
	}
}
