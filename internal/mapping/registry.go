package mapping

import (
	"errors"
	"fmt"
	"strings"

	"transmute/engine"
	"transmute/internal/common"
)

// Input is what a named transform receives.
type Input struct {
	// Source is the whole source record.
	Source engine.Record
	// From lists the source keys or paths the rule declared.
	From []string
	// Value is the value at From[0] (after the rule's default), or nil.
	Value any
	// Values holds the value at every From entry.
	Values []any
	// Args are the rule's args.
	Args map[string]any
	// Extra is the per-call extra record, nil when none was supplied.
	Extra engine.Record
	// HasExtra reports whether an extra record was supplied.
	HasExtra bool
}

// Arg returns args[name], falling back to extra[name].
func (in Input) Arg(name string) (any, bool) {
	if v, ok := in.Args[name]; ok {
		return v, true
	}

	if in.HasExtra {
		if v, ok := in.Extra[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// TransformFunc computes a target value.
type TransformFunc func(in Input) (any, error)

// RegisteredTransform is a named transform.
type RegisteredTransform struct {
	Name        string
	Description string
	Fn          TransformFunc
}

// Registry holds named transforms.
type Registry struct {
	transforms map[string]*RegisteredTransform
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		transforms: make(map[string]*RegisteredTransform),
	}
}

// DefaultRegistry creates a registry holding the builtin transforms.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range builtins() {
		r.transforms[b.Name] = b
	}

	return r
}

// Register adds a transform. Names must be unique.
func (r *Registry) Register(name, description string, fn TransformFunc) error {
	if name == "" {
		return errors.New("transform name is empty")
	}

	if fn == nil {
		return fmt.Errorf("transform %q: nil function", name)
	}

	if _, exists := r.transforms[name]; exists {
		return fmt.Errorf("transform %q already registered", name)
	}

	r.transforms[name] = &RegisteredTransform{Name: name, Description: description, Fn: fn}

	return nil
}

// Get returns a transform by name, or nil if not found.
func (r *Registry) Get(name string) *RegisteredTransform {
	return r.transforms[name]
}

// Has returns true if a transform with the given name exists.
func (r *Registry) Has(name string) bool {
	_, exists := r.transforms[name]
	return exists
}

// Names returns all transform names, sorted.
func (r *Registry) Names() []string {
	return common.SortedKeys(r.transforms)
}

// All returns all transforms sorted by name.
func (r *Registry) All() []*RegisteredTransform {
	names := r.Names()

	result := make([]*RegisteredTransform, len(names))
	for i, name := range names {
		result[i] = r.transforms[name]
	}

	return result
}

// GenerateStub returns Go source for a transform the schema documents but
// the host has not registered.
func GenerateStub(def *TransformDef) string {
	funcName := exportedName(def.Name)

	comment := "// " + funcName + " implements the " + def.Name + " transform."
	if def.Description != "" {
		comment = "// " + funcName + " " + def.Description
	}

	return fmt.Sprintf(`%s
func %s(in mapping.Input) (any, error) {
	return nil, fmt.Errorf("transform %s: not implemented")
}

// registry.Register(%q, %q, %s)`, comment, funcName, def.Name, def.Name, def.Description, funcName)
}

// exportedName turns "to_upper" or "to-upper" into "ToUpper".
func exportedName(name string) string {
	var sb strings.Builder

	upper := true

	for _, r := range name {
		if r == '_' || r == '-' || r == '.' || r == ' ' {
			upper = true
			continue
		}

		if upper {
			sb.WriteString(strings.ToUpper(string(r)))

			upper = false

			continue
		}

		sb.WriteRune(r)
	}

	return sb.String()
}
