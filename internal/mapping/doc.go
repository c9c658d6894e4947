// Package mapping provides YAML schema files, their validation, the registry
// of named transforms and the compiler that turns a schema file into an
// engine.Schema.
//
// # Schema Overview
//
//	version: "1"
//	on_missing: "null"        # null | omit | error (quote null: bare null is YAML nil)
//	121:                      # shorthand direct copies: source key -> target key
//	  email: contactEmail
//	rules:
//	  - to: userAge
//	    from: age
//	  - to: city
//	    from: address.city    # dotted path into nested records
//	  - to: skus
//	    from: items[].sku     # [] collects the value from every element
//	  - to: handle
//	    from: email
//	    transform: lower      # named transform from the registry
//	  - to: fullName
//	    from: [firstName, lastName]
//	    transform: join
//	    args: {separator: " "}
//	  - to: greeting
//	    expr: '"Hello, " + source.firstName'
//	  - to: status
//	    from: state
//	    default: active       # used when the source value is missing
//	transforms:               # transforms the schema expects the host to register
//	  - name: lower
//	    description: lowercases the value
//
// # Rule kinds
//
// A rule with a single plain "from" and nothing else compiles to a direct
// copy. A dotted or "[]" path is still a direct copy, read through Document,
// which resolves paths. Rules with "transform", "expr" or "default" compile to
// transforms; "transform" and "expr" are mutually exclusive.
//
// Rules from the "121" shorthand come first, ordered by source key, followed
// by "rules" in file order. Later rules win when they write the same target.
package mapping
