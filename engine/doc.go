// Package engine builds target records from source values by folding an
// ordered schema of rules.
//
// A rule names one target field and says how to fill it:
//
//   - DirectMap copies the value stored under a source key.
//   - Transform calls a function with the source and the optional extra value.
//   - MappedTransform does the same, and also hands the function the source
//     key it was declared with.
//
// Rules are applied left to right into an empty Record. Each rule writes
// exactly one field, so a later rule with the same target name replaces the
// value of an earlier one.
//
// # Example
//
//	schema := engine.Schema[engine.Record, any]{
//		engine.Transform[engine.Record, any]("fullName", func(a engine.Args[engine.Record, any]) (any, error) {
//			return fmt.Sprintf("%v %v", a.Source["firstName"], a.Source["lastName"]), nil
//		}),
//		engine.DirectMap[engine.Record, any]("userAge", "age"),
//	}
//
//	out, err := engine.Apply(schema, engine.Record{"firstName": "John", "lastName": "Doe", "age": 25})
//	// out == engine.Record{"fullName": "John Doe", "userAge": 25}
//
// # Missing source values
//
// When a direct rule finds no value (the key is absent or holds nil) the
// outcome follows the MissingPolicy: MissingNull stores nil (the default),
// MissingOmit leaves the field out and MissingError fails the call.
//
// # Errors
//
// A nil source fails with ErrNilSource and a malformed rule with
// ErrInvalidRule, both before any rule runs. Errors returned by transform
// functions abort the call and are returned wrapped in a *RuleError. The
// engine never returns a partially built record.
//
// The engine holds no state between calls. Concurrent calls are safe as long
// as the supplied transform functions are.
package engine
