package engine

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode copies a target record into a value of type T. Struct fields are
// matched by the `transmute` tag, falling back to a case-insensitive field
// name match.
func Decode[T any](rec Record) (T, error) {
	var out T

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: TagName,
		Result:  &out,
	})
	if err != nil {
		return out, fmt.Errorf("failed to build decoder: %w", err)
	}

	if err := dec.Decode(map[string]any(rec)); err != nil {
		return out, fmt.Errorf("failed to decode record into %T: %w", out, err)
	}

	return out, nil
}
