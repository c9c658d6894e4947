package engine

import "fmt"

// Schema is an ordered list of rules.
type Schema[S, X any] []Rule[S, X]

// Validate checks every rule and returns the first problem found.
func (s Schema[S, X]) Validate() error {
	for i, r := range s {
		if err := validateRule(r); err != nil {
			return &RuleError{Index: i, To: targetOf(r), Err: err}
		}
	}

	return nil
}

// Targets returns the distinct target names in first-seen order.
func (s Schema[S, X]) Targets() []string {
	seen := make(map[string]struct{}, len(s))
	names := make([]string, 0, len(s))

	for _, r := range s {
		if r == nil {
			continue
		}

		if _, ok := seen[r.Target()]; ok {
			continue
		}

		seen[r.Target()] = struct{}{}
		names = append(names, r.Target())
	}

	return names
}

// Step describes one applied rule. It is reported to the Observer set with
// WithObserver.
type Step struct {
	Index   int
	To      string
	From    string
	Variant Variant
	// Missing is true when a direct rule found no source value.
	Missing bool
	// Omitted is true when the field was left out under MissingOmit.
	Omitted bool
}

// Observer receives a Step after each rule has been applied.
type Observer func(Step)

type options struct {
	missing  MissingPolicy
	observer Observer
}

// Option configures a single Apply call.
type Option func(*options)

// WithMissing sets the policy for direct rules whose source value is absent.
func WithMissing(p MissingPolicy) Option {
	return func(o *options) {
		o.missing = p
	}
}

// WithObserver registers a callback invoked after each rule.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Apply runs schema against source without an extra value.
func Apply[S, X any](schema Schema[S, X], source S, opts ...Option) (Record, error) {
	var extra X
	return run(schema, source, extra, false, opts)
}

// ApplyExtra runs schema against source, passing extra to every transform.
func ApplyExtra[S, X any](schema Schema[S, X], source S, extra X, opts ...Option) (Record, error) {
	return run(schema, source, extra, true, opts)
}

func run[S, X any](schema Schema[S, X], source S, extra X, hasExtra bool, opts []Option) (Record, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if isNil(source) {
		return nil, ErrNilSource
	}

	if err := schema.Validate(); err != nil {
		return nil, err
	}

	var view Getter

	target := make(Record, len(schema))

	for i, r := range schema {
		step := Step{Index: i, To: r.Target(), From: r.From(), Variant: r.Variant()}

		if r.Variant() == VariantDirectMap {
			if view == nil {
				v, err := keyView(source)
				if err != nil {
					return nil, &RuleError{Index: i, To: r.Target(), Err: err}
				}

				view = v
			}

			value, ok := view.Get(r.From())
			if !ok || isNil(value) {
				step.Missing = true

				switch o.missing {
				case MissingOmit:
					delete(target, r.Target())

					step.Omitted = true
					o.notify(step)

					continue
				case MissingError:
					return nil, &RuleError{Index: i, To: r.Target(), Err: fmt.Errorf("%w: %q", ErrMissingField, r.From())}
				default:
					value = nil
				}
			}

			target[r.Target()] = value
			o.notify(step)

			continue
		}

		value, err := r.fn()(Args[S, X]{
			Source:   source,
			From:     r.From(),
			Extra:    extra,
			HasExtra: hasExtra,
		})
		if err != nil {
			return nil, &RuleError{Index: i, To: r.Target(), Err: err}
		}

		target[r.Target()] = value
		o.notify(step)
	}

	return target, nil
}

func (o *options) notify(s Step) {
	if o.observer != nil {
		o.observer(s)
	}
}

func targetOf[S, X any](r Rule[S, X]) string {
	if r == nil {
		return ""
	}

	return r.Target()
}
