package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transmute/engine"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		want []PathSegment
	}{
		{"name", []PathSegment{{Name: "name"}}},
		{"address.city", []PathSegment{{Name: "address"}, {Name: "city"}}},
		{"items[]", []PathSegment{{Name: "items", IsSlice: true}}},
		{"items[].sku", []PathSegment{{Name: "items", IsSlice: true}, {Name: "sku"}}},
		{"orders[].lines[].qty", []PathSegment{
			{Name: "orders", IsSlice: true},
			{Name: "lines", IsSlice: true},
			{Name: "qty"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			fp, err := ParsePath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fp.Segments)
			assert.Equal(t, tt.path, fp.String())
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, path := range []string{"", ".", "a.", ".a", "a..b", "[]", "a.[]", "a[0]", "a[]b"} {
		t.Run(path, func(t *testing.T) {
			_, err := ParsePath(path)
			assert.Error(t, err)
		})
	}
}

func TestIsPath(t *testing.T) {
	assert.False(t, IsPath("name"))
	assert.True(t, IsPath("a.b"))
	assert.True(t, IsPath("items[]"))
}

func TestResolve(t *testing.T) {
	rec := engine.Record{
		"name": "Ada",
		"address": map[string]any{
			"city": "London",
			"geo":  engine.Record{"lat": 51.5},
		},
		"items": []any{
			map[string]any{"sku": "A1", "qty": 2},
			map[string]any{"qty": 1},
			map[string]any{"sku": "C3"},
		},
		"tags":  []any{"x", "y"},
		"lines": []map[string]any{{"n": 1}, {"n": 2}},
	}

	tests := []struct {
		path  string
		want  any
		found bool
	}{
		{"name", "Ada", true},
		{"address.city", "London", true},
		{"address.geo.lat", 51.5, true},
		{"address.zip", nil, false},
		{"name.first", nil, false},
		{"missing.key", nil, false},
		{"items[].sku", []any{"A1", nil, "C3"}, true},
		{"items[].qty", []any{2, 1, nil}, true},
		{"tags[]", []any{"x", "y"}, true},
		{"lines[].n", []any{1, 2}, true},
		{"name[]", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			fp, err := ParsePath(tt.path)
			require.NoError(t, err)

			got, found := Resolve(fp, rec)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_Get(t *testing.T) {
	doc := NewDocument(engine.Record{
		"a.b": "verbatim",
		"a":   map[string]any{"b": "nested", "c": "deep"},
	})

	v, ok := doc.Get("a.b")
	assert.True(t, ok)
	assert.Equal(t, "verbatim", v)

	v, ok = doc.Get("a.c")
	assert.True(t, ok)
	assert.Equal(t, "deep", v)

	_, ok = doc.Get("b")
	assert.False(t, ok)

	_, ok = doc.Get("a..c")
	assert.False(t, ok)

	assert.Nil(t, NewDocument(nil))
}
