package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRun_PreservesOrder(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	got, err := Run(context.Background(), items, 8, func(_ context.Context, n int) (int, error) {
		return n * n, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 50)

	for i, v := range got {
		assert.Equal(t, i*i, v)
	}
}

func TestRun_Empty(t *testing.T) {
	got, err := Run(context.Background(), []string(nil), 4, func(_ context.Context, s string) (string, error) {
		return s, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRun_BoundsParallelism(t *testing.T) {
	var running, peak atomic.Int32

	items := make([]int, 20)

	_, err := Run(context.Background(), items, 3, func(_ context.Context, _ int) (struct{}, error) {
		n := running.Add(1)
		defer running.Add(-1)

		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}

		return struct{}{}, nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_Error(t *testing.T) {
	errBad := errors.New("bad item")

	items := []string{"ok", "ok", "bad", "ok"}

	_, err := Run(context.Background(), items, 1, func(_ context.Context, s string) (string, error) {
		if s == "bad" {
			return "", errBad
		}

		return s, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBad)

	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, 2, itemErr.Index)
	assert.Equal(t, "item 2: bad item", err.Error())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32

	_, err := Run(ctx, []int{1, 2, 3}, 2, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		return n, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}
