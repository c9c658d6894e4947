package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSource is returned when Apply is called with a nil source.
	ErrNilSource = errors.New("source is nil")
	// ErrInvalidRule is returned when a schema contains a rule that cannot be applied.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrMissingField is returned under MissingError when a direct rule finds no value.
	ErrMissingField = errors.New("missing source field")
	// ErrUnsupportedSource is returned when a direct rule cannot read keys from the source.
	ErrUnsupportedSource = errors.New("source does not support key lookup")
)

// RuleError wraps a failure raised while applying one rule.
type RuleError struct {
	// Index is the position of the rule in the schema.
	Index int
	// To is the target field of the rule.
	To string
	// Err is the underlying error.
	Err error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d (%s): %v", e.Index, e.To, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
