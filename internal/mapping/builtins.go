package mapping

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

func builtins() []*RegisteredTransform {
	return []*RegisteredTransform{
		{Name: "lower", Description: "lowercases a string value", Fn: stringFn(strings.ToLower)},
		{Name: "upper", Description: "uppercases a string value", Fn: stringFn(strings.ToUpper)},
		{Name: "trim", Description: "removes surrounding whitespace", Fn: stringFn(strings.TrimSpace)},
		{Name: "string", Description: "formats the value as a string", Fn: toStringFn},
		{Name: "int", Description: "converts the value to an integer", Fn: toIntFn},
		{Name: "float", Description: "converts the value to a float", Fn: toFloatFn},
		{Name: "bool", Description: "converts the value to a boolean", Fn: toBoolFn},
		{Name: "join", Description: "joins all source values (or a list value) with args.separator", Fn: joinFn},
		{Name: "coalesce", Description: "returns the first non-nil source value", Fn: coalesceFn},
		{Name: "not_empty", Description: "reports whether the value is set and non-empty", Fn: notEmptyFn},
		{Name: "uuid", Description: "generates a random UUID", Fn: uuidFn},
		{Name: "uuid_v5", Description: "derives a stable UUID from the value", Fn: uuidV5Fn},
	}
}

// stringFn lifts a string function; nil passes through.
func stringFn(fn func(string) string) TransformFunc {
	return func(in Input) (any, error) {
		if in.Value == nil {
			return nil, nil
		}

		s, ok := in.Value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", in.Value)
		}

		return fn(s), nil
	}
}

func toStringFn(in Input) (any, error) {
	if in.Value == nil {
		return nil, nil
	}

	return formatValue(in.Value), nil
}

func toIntFn(in Input) (any, error) {
	switch v := in.Value.(type) {
	case nil:
		return nil, nil
	case float64:
		return floatToInt(v)
	case float32:
		return floatToInt(float64(v))
	}

	var n int
	if err := mapstructure.WeakDecode(trimmed(in.Value), &n); err != nil {
		return nil, fmt.Errorf("cannot convert %v (%T) to int: %w", in.Value, in.Value, err)
	}

	return n, nil
}

// floatToInt rejects fractions and values an int cannot hold.
func floatToInt(f float64) (any, error) {
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("cannot convert %v to int: has a fraction", f)
	}

	if f < math.MinInt || f >= math.MaxInt {
		return nil, fmt.Errorf("cannot convert %v to int: out of range", f)
	}

	return int(f), nil
}

func toFloatFn(in Input) (any, error) {
	if in.Value == nil {
		return nil, nil
	}

	var f float64
	if err := mapstructure.WeakDecode(trimmed(in.Value), &f); err != nil {
		return nil, fmt.Errorf("cannot convert %v (%T) to float: %w", in.Value, in.Value, err)
	}

	return f, nil
}

// trimmed strips surrounding whitespace from string values.
func trimmed(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}

	return v
}

// toBoolFn accepts the yes/no and on/off spellings common in YAML and CSV
// data on top of what strconv.ParseBool knows.
func toBoolFn(in Input) (any, error) {
	switch v := in.Value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0", "":
			return false, nil
		}

		return nil, fmt.Errorf("cannot convert %q to bool", v)
	default:
		return nil, fmt.Errorf("cannot convert %T to bool", in.Value)
	}
}

func joinFn(in Input) (any, error) {
	sep := " "
	if v, ok := in.Arg("separator"); ok {
		sep = formatValue(v)
	}

	items := in.Values
	if len(in.From) <= 1 {
		list, ok := in.Value.([]any)
		if !ok {
			if in.Value == nil {
				return nil, nil
			}

			return formatValue(in.Value), nil
		}

		items = list
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		parts = append(parts, formatValue(item))
	}

	return strings.Join(parts, sep), nil
}

func coalesceFn(in Input) (any, error) {
	for _, v := range in.Values {
		if v != nil {
			return v, nil
		}
	}

	if fallback, ok := in.Arg("fallback"); ok {
		return fallback, nil
	}

	return nil, nil
}

func notEmptyFn(in Input) (any, error) {
	switch v := in.Value.(type) {
	case nil:
		return false, nil
	case string:
		return v != "", nil
	case []any:
		return len(v) > 0, nil
	case map[string]any:
		return len(v) > 0, nil
	default:
		return true, nil
	}
}

func uuidFn(Input) (any, error) {
	return uuid.NewString(), nil
}

func uuidV5Fn(in Input) (any, error) {
	if in.Value == nil {
		return nil, nil
	}

	ns := uuid.NameSpaceOID
	if v, ok := in.Arg("namespace"); ok {
		parsed, err := uuid.Parse(formatValue(v))
		if err != nil {
			return nil, fmt.Errorf("invalid namespace: %w", err)
		}

		ns = parsed
	}

	return uuid.NewSHA1(ns, []byte(formatValue(in.Value))).String(), nil
}

func formatValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
