package mapping

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"
)

// ExprCache compiles expressions once and shares the programs.
type ExprCache struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
	options  []expr.Option
}

// NewExprCache creates an empty cache. Expressions see the variables source,
// from, value, values, args, extra and has_extra, plus the helper functions
// coalesce and uuid on top of the expr builtins.
func NewExprCache() *ExprCache {
	return &ExprCache{
		programs: make(map[string]*vm.Program),
		options: []expr.Option{
			expr.Env(exprScope{}),
			expr.Function("coalesce", func(params ...any) (any, error) {
				for _, p := range params {
					if p != nil {
						return p, nil
					}
				}

				return nil, nil
			}),
			expr.Function("uuid", func(params ...any) (any, error) {
				if len(params) != 0 {
					return nil, fmt.Errorf("uuid takes no arguments")
				}

				return uuid.NewString(), nil
			}),
		},
	}
}

// Compile returns the cached program for expression, compiling it on first use.
func (c *ExprCache) Compile(expression string) (*vm.Program, error) {
	c.mu.RLock()
	program, ok := c.programs[expression]
	c.mu.RUnlock()

	if ok {
		return program, nil
	}

	program, err := expr.Compile(expression, c.options...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.programs[expression] = program
	c.mu.Unlock()

	return program, nil
}

// Eval compiles (or reuses) expression and runs it against in.
func (c *ExprCache) Eval(expression string, in Input) (any, error) {
	program, err := c.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}

	out, err := expr.Run(program, exprEnv(in))
	if err != nil {
		return nil, fmt.Errorf("run expression: %w", err)
	}

	return out, nil
}

// Len returns the number of cached programs.
func (c *ExprCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.programs)
}

// exprScope is the environment expressions run in. From holds a string for
// a single source key and a []string for several.
type exprScope struct {
	Source   map[string]any `expr:"source"`
	From     any            `expr:"from"`
	Value    any            `expr:"value"`
	Values   []any          `expr:"values"`
	Args     map[string]any `expr:"args"`
	Extra    map[string]any `expr:"extra"`
	HasExtra bool           `expr:"has_extra"`
}

func exprEnv(in Input) exprScope {
	scope := exprScope{
		Source:   in.Source,
		Value:    in.Value,
		Values:   in.Values,
		Args:     in.Args,
		Extra:    in.Extra,
		HasExtra: in.HasExtra,
		From:     "",
	}

	if scope.Source == nil {
		scope.Source = map[string]any{}
	}

	if scope.Extra == nil {
		scope.Extra = map[string]any{}
	}

	if scope.Args == nil {
		scope.Args = map[string]any{}
	}

	switch len(in.From) {
	case 0:
	case 1:
		scope.From = in.From[0]
	default:
		scope.From = in.From
	}

	return scope
}
