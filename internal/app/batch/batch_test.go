package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/stack-of-tasks/internal/app/batch"
	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

type fakeLoop struct {
	cycle uint64
	delay time.Duration
	runFn func(ctx context.Context) error
	ran   bool
}

func (f *fakeLoop) Run(ctx context.Context) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.runFn != nil {
		if err := f.runFn(ctx); err != nil {
			return err
		}
	}
	f.ran = true
	return nil
}

func (f *fakeLoop) Latest() (domain.Snapshot, bool) {
	if !f.ran {
		return domain.Snapshot{}, false
	}
	return domain.Snapshot{Cycle: f.cycle}, true
}

func TestRun_Empty(t *testing.T) {
	t.Parallel()

	results := batch.Run(context.Background(), 4, nil, func(string) (batch.Loop, error) {
		t.Fatal("open should not be called for empty input")
		return nil, nil
	})
	assert.Empty(t, results)
	assert.NoError(t, batch.Err(results))
}

func TestRun_PreservesOrderAndIsolatesFailures(t *testing.T) {
	t.Parallel()

	errMissing := errors.New("missing scenario")
	loops := map[string]*fakeLoop{
		"slow.yaml": {cycle: 30, delay: 30 * time.Millisecond},
		"fast.yaml": {cycle: 10, delay: time.Millisecond},
	}
	open := func(path string) (batch.Loop, error) {
		if l, ok := loops[path]; ok {
			return l, nil
		}
		return nil, errMissing
	}

	results := batch.Run(context.Background(), 3, []string{"slow.yaml", "missing.yaml", "fast.yaml"}, open)
	require.Len(t, results, 3)

	assert.Equal(t, "slow.yaml", results[0].Path)
	require.NoError(t, results[0].Err)
	assert.Equal(t, uint64(30), results[0].Snapshot.Cycle)

	assert.ErrorIs(t, results[1].Err, errMissing)

	require.NoError(t, results[2].Err)
	assert.Equal(t, uint64(10), results[2].Snapshot.Cycle)

	assert.ErrorIs(t, batch.Err(results), errMissing)
}

func TestRun_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	const maxWorkers = 2
	var peak, active atomic.Int32

	open := func(string) (batch.Loop, error) {
		return &fakeLoop{cycle: 1, runFn: func(context.Context) error {
			cur := active.Add(1)
			defer active.Add(-1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return nil
		}}, nil
	}

	paths := make([]string, 8)
	for i := range paths {
		paths[i] = "scenario.yaml"
	}
	results := batch.Run(context.Background(), maxWorkers, paths, open)
	require.NoError(t, batch.Err(results))
	assert.LessOrEqual(t, peak.Load(), int32(maxWorkers))
}

func TestRun_Cancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	open := func(string) (batch.Loop, error) {
		return &fakeLoop{cycle: 1, runFn: func(context.Context) error {
			cancel()
			return nil
		}}, nil
	}

	results := batch.Run(ctx, 1, []string{"a.yaml", "b.yaml", "c.yaml"}, open)

	var canceled int
	for _, r := range results {
		if errors.Is(r.Err, context.Canceled) {
			canceled++
		}
	}
	assert.Equal(t, 3, canceled)
}

func TestRun_LoopWithoutCycles(t *testing.T) {
	t.Parallel()

	open := func(string) (batch.Loop, error) {
		return &fakeLoop{runFn: func(context.Context) error { return errors.New("diverged") }}, nil
	}
	results := batch.Run(context.Background(), 1, []string{"a.yaml"}, open)
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "diverged")
}
