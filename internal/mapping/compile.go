package mapping

import (
	"fmt"

	"transmute/engine"
)

// Program is a compiled schema file.
type Program struct {
	// Schema is the compiled rule list.
	Schema engine.Schema[*Document, engine.Record]
	// Missing is the policy declared by the schema file.
	Missing engine.MissingPolicy
}

// Run applies the program to source. A nil extra means no extra value; a
// non-nil one is visible to every transform and expression. Options are
// applied after the schema's own missing policy and may override it.
func (p *Program) Run(source, extra engine.Record, opts ...engine.Option) (engine.Record, error) {
	all := append([]engine.Option{engine.WithMissing(p.Missing)}, opts...)

	if extra == nil {
		return engine.Apply(p.Schema, NewDocument(source), all...)
	}

	return engine.ApplyExtra(p.Schema, NewDocument(source), extra, all...)
}

// Targets returns the distinct target names in first-seen order.
func (p *Program) Targets() []string {
	return p.Schema.Targets()
}

// Compiler turns schema files into programs. It can be reused across files;
// expressions are compiled once per distinct text.
type Compiler struct {
	registry *Registry
	exprs    *ExprCache
}

// NewCompiler creates a compiler resolving transforms in reg. A nil reg
// means DefaultRegistry().
func NewCompiler(reg *Registry) *Compiler {
	if reg == nil {
		reg = DefaultRegistry()
	}

	return &Compiler{registry: reg, exprs: NewExprCache()}
}

// Registry returns the registry the compiler resolves transforms in.
func (c *Compiler) Registry() *Registry {
	return c.registry
}

// Exprs returns the compiler's expression cache.
func (c *Compiler) Exprs() *ExprCache {
	return c.exprs
}

// Compile validates sf and compiles it. Validation errors are returned as a
// single error; warnings are ignored.
func (c *Compiler) Compile(sf *SchemaFile) (*Program, error) {
	diags := c.Validate(sf)
	if err := diags.Err(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	missing, err := engine.ParseMissingPolicy(sf.OnMissing)
	if err != nil {
		return nil, err
	}

	norm := sf.Clone()
	NormalizeSchemaFile(norm)

	schema := make(engine.Schema[*Document, engine.Record], 0, len(norm.Rules))
	for i := range norm.Rules {
		schema = append(schema, c.compileRule(norm.Rules[i]))
	}

	return &Program{Schema: schema, Missing: missing}, nil
}

// Compile compiles sf with the builtin transforms.
func Compile(sf *SchemaFile) (*Program, error) {
	return NewCompiler(nil).Compile(sf)
}

func (c *Compiler) compileRule(rd RuleDef) engine.Rule[*Document, engine.Record] {
	if rd.IsDirect() {
		return engine.DirectMap[*Document, engine.Record](rd.To, rd.From.First())
	}

	compute := c.computeFunc(rd)

	fn := func(a engine.Args[*Document, engine.Record]) (any, error) {
		return compute(rd.input(a))
	}

	if rd.From.IsSingle() {
		return engine.MappedTransform[*Document, engine.Record](rd.To, rd.From.First(), fn)
	}

	return engine.Transform[*Document, engine.Record](rd.To, fn)
}

func (c *Compiler) computeFunc(rd RuleDef) TransformFunc {
	switch {
	case rd.Transform != "":
		fn := c.registry.Get(rd.Transform).Fn
		name := rd.Transform

		return func(in Input) (any, error) {
			out, err := fn(in)
			if err != nil {
				return nil, fmt.Errorf("transform %s: %w", name, err)
			}

			return out, nil
		}
	case rd.Expr != "":
		text := rd.Expr

		return func(in Input) (any, error) {
			return c.exprs.Eval(text, in)
		}
	default:
		return func(in Input) (any, error) {
			return in.Value, nil
		}
	}
}

// input gathers the values a rule reads, substituting the default for
// missing ones.
func (rd *RuleDef) input(a engine.Args[*Document, engine.Record]) Input {
	in := Input{
		Source:   a.Source.Record(),
		From:     rd.From,
		Args:     rd.Args,
		Extra:    a.Extra,
		HasExtra: a.HasExtra,
		Values:   make([]any, len(rd.From)),
	}

	for i, from := range rd.From {
		v, _ := a.Source.Get(from)
		if v == nil {
			v = rd.Default
		}

		in.Values[i] = v
	}

	if len(in.Values) > 0 {
		in.Value = in.Values[0]
	} else {
		in.Value = rd.Default
	}

	return in
}
