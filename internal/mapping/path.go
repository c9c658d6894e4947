package mapping

import (
	"errors"
	"fmt"
	"strings"

	"transmute/engine"
)

// PathSegment is one key of a path.
type PathSegment struct {
	// Name is the key.
	Name string

	// IsSlice marks a segment whose value is a list; the rest of the path is
	// resolved against every element (e.g. "items[]").
	IsSlice bool
}

// FieldPath is a parsed path like "items[].sku".
type FieldPath struct {
	Segments []PathSegment
}

// String returns the path in its textual form.
func (p FieldPath) String() string {
	var sb strings.Builder

	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString(".")
		}

		sb.WriteString(seg.Name)

		if seg.IsSlice {
			sb.WriteString("[]")
		}
	}

	return sb.String()
}

// IsPath reports whether s uses path syntax rather than naming a single key.
func IsPath(s string) bool {
	return strings.Contains(s, ".") || strings.Contains(s, "[]")
}

// ParsePath parses "key", "a.b", "items[]" and "items[].sku".
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, errors.New("empty path")
	}

	var segments []PathSegment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return FieldPath{}, fmt.Errorf("invalid path %q: empty segment", path)
		}

		name, isSlice := strings.CutSuffix(part, "[]")
		if name == "" {
			return FieldPath{}, fmt.Errorf("invalid path %q: [] without key", path)
		}

		if strings.ContainsAny(name, "[]") {
			return FieldPath{}, fmt.Errorf("invalid path %q: unexpected bracket in %q", path, part)
		}

		segments = append(segments, PathSegment{Name: name, IsSlice: isSlice})
	}

	return FieldPath{Segments: segments}, nil
}

// Resolve reads the value at path from rec. The boolean is false when a key
// along the way is absent or a value cannot be descended into. Segments
// marked "[]" produce a []any with one entry per element; elements lacking
// the rest of the path contribute nil.
func Resolve(path FieldPath, rec engine.Record) (any, bool) {
	return resolve(path.Segments, map[string]any(rec))
}

func resolve(segments []PathSegment, current any) (any, bool) {
	if len(segments) == 0 {
		return current, true
	}

	m, ok := asMap(current)
	if !ok {
		return nil, false
	}

	seg := segments[0]

	value, ok := m[seg.Name]
	if !ok {
		return nil, false
	}

	if !seg.IsSlice {
		return resolve(segments[1:], value)
	}

	items, ok := asList(value)
	if !ok {
		return nil, false
	}

	out := make([]any, len(items))
	for i, item := range items {
		out[i], _ = resolve(segments[1:], item)
	}

	return out, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case engine.Record:
		return m, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}

		return out, true
	case []engine.Record:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}

		return out, true
	default:
		return nil, false
	}
}

// Document is the source handed to compiled schemas. It serves plain keys
// from the record and resolves path keys through nested records.
type Document struct {
	rec engine.Record
}

// NewDocument wraps rec. It returns nil for a nil record.
func NewDocument(rec engine.Record) *Document {
	if rec == nil {
		return nil
	}

	return &Document{rec: rec}
}

// Record returns the wrapped record.
func (d *Document) Record() engine.Record {
	return d.rec
}

// Get implements engine.Getter. A key present verbatim in the record wins
// over its interpretation as a path.
func (d *Document) Get(key string) (any, bool) {
	if v, ok := d.rec[key]; ok {
		return v, true
	}

	if !IsPath(key) {
		return nil, false
	}

	fp, err := ParsePath(key)
	if err != nil {
		return nil, false
	}

	return Resolve(fp, d.rec)
}
