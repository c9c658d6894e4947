package engine

import (
	"fmt"

	"transmute/internal/common"
)

// Args is the argument bundle passed to a transform function.
type Args[S, X any] struct {
	// Source is the value being transformed.
	Source S
	// From is the source key the rule was declared with, or "" for Transform rules.
	From string
	// Extra is the per-call extra value. It holds the zero value of X when the
	// caller supplied none.
	Extra X
	// HasExtra reports whether the caller supplied an extra value.
	HasExtra bool
}

// Func computes the value of a target field.
type Func[S, X any] func(Args[S, X]) (any, error)

// Variant identifies the kind of a rule.
type Variant int

const (
	VariantDirectMap       Variant = iota + 1 // copy a source key
	VariantTransform                          // call a function
	VariantMappedTransform                    // call a function declared against a source key
)

// String returns a human-readable variant name.
func (v Variant) String() string {
	switch v {
	case VariantDirectMap:
		return "direct"
	case VariantTransform:
		return "transform"
	case VariantMappedTransform:
		return "mapped-transform"
	default:
		return common.UnknownStr
	}
}

// Rule is one schema entry. The set of implementations is closed: rules are
// built with DirectMap, Transform and MappedTransform only.
type Rule[S, X any] interface {
	// Target returns the name of the field the rule writes.
	Target() string
	// From returns the source key, or "" for Transform rules.
	From() string
	// Variant returns the rule kind.
	Variant() Variant

	fn() Func[S, X]
}

type rule[S, X any] struct {
	variant Variant
	to      string
	from    string
	call    Func[S, X]
}

func (r rule[S, X]) Target() string   { return r.to }
func (r rule[S, X]) From() string     { return r.from }
func (r rule[S, X]) Variant() Variant { return r.variant }
func (r rule[S, X]) fn() Func[S, X]   { return r.call }

// DirectMap returns a rule copying source[from] into target[to].
func DirectMap[S, X any](to, from string) Rule[S, X] {
	return rule[S, X]{variant: VariantDirectMap, to: to, from: from}
}

// Transform returns a rule storing fn's result into target[to].
func Transform[S, X any](to string, fn Func[S, X]) Rule[S, X] {
	return rule[S, X]{variant: VariantTransform, to: to, call: fn}
}

// MappedTransform returns a rule storing fn's result into target[to]. The
// function receives from in Args.From.
func MappedTransform[S, X any](to, from string, fn Func[S, X]) Rule[S, X] {
	return rule[S, X]{variant: VariantMappedTransform, to: to, from: from, call: fn}
}

// validateRule reports why r cannot be applied, or nil.
func validateRule[S, X any](r Rule[S, X]) error {
	if r == nil {
		return fmt.Errorf("%w: nil rule", ErrInvalidRule)
	}

	if r.Target() == "" {
		return fmt.Errorf("%w: empty target name", ErrInvalidRule)
	}

	switch r.Variant() {
	case VariantDirectMap:
		if r.From() == "" {
			return fmt.Errorf("%w: %q: direct mapping without source key", ErrInvalidRule, r.Target())
		}
	case VariantTransform:
		if r.fn() == nil {
			return fmt.Errorf("%w: %q: transform without function", ErrInvalidRule, r.Target())
		}
	case VariantMappedTransform:
		if r.From() == "" {
			return fmt.Errorf("%w: %q: mapped transform without source key", ErrInvalidRule, r.Target())
		}

		if r.fn() == nil {
			return fmt.Errorf("%w: %q: mapped transform without function", ErrInvalidRule, r.Target())
		}
	default:
		return fmt.Errorf("%w: %q: unknown variant %d", ErrInvalidRule, r.Target(), int(r.Variant()))
	}

	return nil
}
