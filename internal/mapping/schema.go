package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the schema file version this package reads and writes.
const CurrentVersion = "1"

// SchemaFile is the root of a YAML schema file.
type SchemaFile struct {
	// Version of the schema format.
	Version string `yaml:"version,omitempty"`

	// OnMissing is the missing-value policy: "null" (default), "omit" or "error".
	OnMissing string `yaml:"on_missing,omitempty"`

	// OneToOne maps source keys to target keys for plain copies.
	// Example: { "email": "contactEmail" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Rules are applied in order after the shorthand copies.
	Rules []RuleDef `yaml:"rules,omitempty"`

	// Transforms documents the named transforms the rules rely on.
	Transforms []TransformDef `yaml:"transforms,omitempty"`
}

// RuleDef is one rule of a schema file.
type RuleDef struct {
	// To is the target field name.
	To string `yaml:"to"`

	// From is the source key or path, or several of them for transforms that
	// combine values. Examples: "age", "address.city", ["firstName", "lastName"].
	From StringOrArray `yaml:"from,omitempty"`

	// Transform names a registered transform.
	Transform string `yaml:"transform,omitempty"`

	// Expr is an expression computing the value.
	Expr string `yaml:"expr,omitempty"`

	// Args are passed to the transform or expression as "args".
	Args map[string]any `yaml:"args,omitempty"`

	// Default replaces a missing source value. Without From it is the value.
	Default any `yaml:"default,omitempty"`
}

// HasDefault reports whether the rule declares a default value.
func (r *RuleDef) HasDefault() bool {
	return r.Default != nil
}

// IsDirect reports whether the rule is a plain copy of one source key or path.
func (r *RuleDef) IsDirect() bool {
	return r.From.IsSingle() && r.Transform == "" && r.Expr == "" && !r.HasDefault()
}

// TransformDef documents a named transform.
type TransformDef struct {
	// Name is the identifier used by rules.
	Name string `yaml:"name"`

	// Description is an optional human-readable description.
	Description string `yaml:"description,omitempty"`
}

// StringOrArray is a string slice written in YAML either as a single string
// or as a list of strings.
type StringOrArray []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str == "" {
			*s = StringOrArray{}
		} else {
			*s = StringOrArray{str}
		}

		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// MarshalYAML writes a single element as a plain string.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or "" if empty.
func (s StringOrArray) First() string {
	if len(s) == 0 {
		return ""
	}

	return s[0]
}

// IsEmpty returns true if there are no elements.
func (s StringOrArray) IsEmpty() bool {
	return len(s) == 0
}

// IsSingle returns true if there is exactly one element.
func (s StringOrArray) IsSingle() bool {
	return len(s) == 1
}

// IsMultiple returns true if there is more than one element.
func (s StringOrArray) IsMultiple() bool {
	return len(s) > 1
}
