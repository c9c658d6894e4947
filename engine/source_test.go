package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	FirstName string `transmute:"firstName"`
	LastName  string `transmute:"lastName"`
	Age       int    `transmute:"age"`
	Email     string `transmute:"email"`
}

type upperGetter map[string]string

func (g upperGetter) Get(key string) (any, bool) {
	v, ok := g[key]
	if !ok {
		return nil, false
	}

	return strings.ToUpper(v), true
}

func TestApply_StructSource(t *testing.T) {
	schema := Schema[person, any]{
		Transform[person, any]("fullName", func(a Args[person, any]) (any, error) {
			return a.Source.FirstName + " " + a.Source.LastName, nil
		}),
		DirectMap[person, any]("userAge", "age"),
		DirectMap[person, any]("contactEmail", "email"),
		DirectMap[person, any]("phone", "phone"),
	}

	out, err := Apply(schema, person{FirstName: "John", LastName: "Doe", Age: 25, Email: "john.doe@example.com"})
	require.NoError(t, err)

	assert.Equal(t, Record{
		"fullName":     "John Doe",
		"userAge":      25,
		"contactEmail": "john.doe@example.com",
		"phone":        nil,
	}, out)
}

func TestApply_StructPointerSource(t *testing.T) {
	schema := Schema[*person, any]{DirectMap[*person, any]("age", "age")}

	out, err := Apply(schema, &person{Age: 40})
	require.NoError(t, err)
	assert.Equal(t, Record{"age": 40}, out)
}

type address struct {
	City string
}

type account struct {
	Created time.Time `transmute:"created"`
	Address address   `transmute:"address"`
	Home    *address  `transmute:"home"`
	Tags    []string
	Secret  string `transmute:"-"`
	note    string
}

func TestApply_StructFieldsCopiedVerbatim(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	home := &address{City: "Paris"}

	schema := Schema[account, any]{
		DirectMap[account, any]("created", "created"),
		DirectMap[account, any]("address", "address"),
		DirectMap[account, any]("home", "home"),
		DirectMap[account, any]("tags", "Tags"),
		DirectMap[account, any]("secret", "Secret"),
		DirectMap[account, any]("note", "note"),
	}

	src := account{
		Created: created,
		Address: address{City: "London"},
		Home:    home,
		Tags:    []string{"a"},
		Secret:  "s3cret",
		note:    "hidden",
	}

	out, err := Apply(schema, src)
	require.NoError(t, err)

	assert.Equal(t, created, out["created"])
	assert.Equal(t, address{City: "London"}, out["address"])
	assert.Same(t, home, out["home"])
	assert.Equal(t, []string{"a"}, out["tags"])
	assert.Nil(t, out["secret"], "fields tagged - are not readable")
	assert.Nil(t, out["note"], "unexported fields are not readable")

	// The same struct type behind a pointer is served from the field cache.
	ptrSchema := Schema[*account, any]{DirectMap[*account, any]("created", "created")}

	out, err = Apply(ptrSchema, &src)
	require.NoError(t, err)
	assert.Equal(t, created, out["created"])
}

func TestApply_GetterSource(t *testing.T) {
	schema := Schema[upperGetter, any]{DirectMap[upperGetter, any]("name", "name")}

	out, err := Apply(schema, upperGetter{"name": "ada"})
	require.NoError(t, err)
	assert.Equal(t, Record{"name": "ADA"}, out)
}

func TestApply_StringMapSource(t *testing.T) {
	schema := Schema[map[string]string, any]{DirectMap[map[string]string, any]("x", "a")}

	out, err := Apply(schema, map[string]string{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, Record{"x": "1"}, out)
}

func TestApply_UnsupportedSource(t *testing.T) {
	direct := Schema[int, any]{DirectMap[int, any]("x", "a")}

	_, err := Apply(direct, 5)
	require.ErrorIs(t, err, ErrUnsupportedSource)

	computed := Schema[int, any]{
		Transform[int, any]("double", func(a Args[int, any]) (any, error) { return a.Source * 2, nil }),
	}

	out, err := Apply(computed, 5)
	require.NoError(t, err)
	assert.Equal(t, Record{"double": 10}, out)
}

func TestDecode(t *testing.T) {
	type target struct {
		FullName string `transmute:"fullName"`
		UserAge  int    `transmute:"userAge"`
		IsAdult  bool   `transmute:"isAdult"`
	}

	got, err := Decode[target](Record{"fullName": "John Doe", "userAge": 25, "isAdult": true})
	require.NoError(t, err)
	assert.Equal(t, target{FullName: "John Doe", UserAge: 25, IsAdult: true}, got)

	_, err = Decode[target](Record{"userAge": "not a number"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode record")
}

func TestRecord_GetAndKeys(t *testing.T) {
	r := Record{"a": 1, "b": nil}

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("c")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"a", "b"}, r.Keys())
}

func TestParseMissingPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MissingPolicy
		wantErr bool
	}{
		{"", MissingNull, false},
		{"null", MissingNull, false},
		{"NULL", MissingNull, false},
		{"omit", MissingOmit, false},
		{" error ", MissingError, false},
		{"skip", MissingNull, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMissingPolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMissingPolicy_Text(t *testing.T) {
	var p MissingPolicy
	require.NoError(t, p.UnmarshalText([]byte("omit")))
	assert.Equal(t, MissingOmit, p)

	text, err := MissingError.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))

	assert.Equal(t, "null", MissingNull.String())
	assert.Equal(t, "MissingPolicy(9)", MissingPolicy(9).String())
	require.Error(t, p.UnmarshalText([]byte("bogus")))
}
