// Package batch runs one function over many items with bounded parallelism.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ItemError reports the item that failed.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Run applies fn to every item using at most workers goroutines and returns
// the results in input order. The first failure cancels the context passed
// to the remaining calls and is returned as an *ItemError. workers <= 0
// means one.
func Run[T, R any](ctx context.Context, items []T, workers int, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]R, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &ItemError{Index: i, Err: err}
			}

			out, err := fn(gctx, item)
			if err != nil {
				return &ItemError{Index: i, Err: err}
			}

			results[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
