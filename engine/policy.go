package engine

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=MissingPolicy -linecomment -output=missingpolicy_string.go

// MissingPolicy decides what a direct rule does when the source has no value
// for its key.
type MissingPolicy int

const (
	MissingNull  MissingPolicy = iota // null
	MissingOmit                       // omit
	MissingError                      // error
)

// ParseMissingPolicy parses "null", "omit" or "error". The empty string
// yields MissingNull.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "nil":
		return MissingNull, nil
	case "omit":
		return MissingOmit, nil
	case "error":
		return MissingError, nil
	default:
		return MissingNull, fmt.Errorf("unknown missing policy %q (want null, omit or error)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *MissingPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseMissingPolicy(string(text))
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p MissingPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
