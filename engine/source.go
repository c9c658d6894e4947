package engine

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag consulted when reading struct sources and when
// decoding records into structs.
const TagName = "transmute"

// Record is a keyed record. Targets are always Records.
type Record map[string]any

// Get implements Getter.
func (r Record) Get(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// Keys returns the record keys in unspecified order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}

	return keys
}

// Getter is implemented by sources that resolve keys themselves.
type Getter interface {
	Get(key string) (any, bool)
}

// keyView returns a Getter over source for direct rules. Records and
// Getters are used as-is; structs and other string-keyed maps are read in
// place so values come back unchanged.
func keyView(source any) (Getter, error) {
	switch s := source.(type) {
	case Getter:
		return s, nil
	case map[string]any:
		return Record(s), nil
	}

	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, ErrNilSource
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return structView{rv: rv, fields: structFields(rv.Type())}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return mapView{rv: rv}, nil
		}
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedSource, source)
}

// structView serves the exported fields of a struct by key.
type structView struct {
	rv     reflect.Value
	fields map[string]int
}

func (v structView) Get(key string) (any, bool) {
	i, ok := v.fields[key]
	if !ok {
		return nil, false
	}

	return v.rv.Field(i).Interface(), true
}

// mapView serves a map whose key kind is string.
type mapView struct {
	rv reflect.Value
}

func (v mapView) Get(key string) (any, bool) {
	value := v.rv.MapIndex(reflect.ValueOf(key).Convert(v.rv.Type().Key()))
	if !value.IsValid() {
		return nil, false
	}

	return value.Interface(), true
}

var fieldCache sync.Map // reflect.Type -> map[string]int

// structFields maps the keys of t's exported fields to their index. The key
// is the name in the `transmute` tag, or the field name; "-" skips a field.
func structFields(t reflect.Type) map[string]int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]int)
	}

	fields := make(map[string]int, t.NumField())

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(f.Tag.Get(TagName), ",")
		if name == "-" {
			continue
		}

		if name == "" {
			name = f.Name
		}

		if _, taken := fields[name]; !taken {
			fields[name] = i
		}
	}

	cached, _ := fieldCache.LoadOrStore(t, fields)

	return cached.(map[string]int)
}

// isNil reports whether v is nil or a typed nil of a nillable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
