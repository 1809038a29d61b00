// Package batch runs several independent control loops concurrently, one
// per scenario, each with its own stack, solver and engines. Results keep
// the order of the input paths.
package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen11/stack-of-tasks/internal/domain"
)

// Loop is the part of a control loop a batch drives.
type Loop interface {
	Run(ctx context.Context) error
	Latest() (domain.Snapshot, bool)
}

// OpenFunc builds the loop for one scenario path.
type OpenFunc func(path string) (Loop, error)

// Result holds the outcome of one scenario. Either Snapshot holds the last
// cycle or Err is non-nil.
type Result struct {
	Path     string          `json:"path"`
	Snapshot domain.Snapshot `json:"snapshot"`
	Err      error           `json:"-"`
}

// Run opens and runs every path with at most maxWorkers loops in flight.
// A failing scenario does not stop the others. Paths still waiting for a
// slot when ctx is done report ctx.Err().
func Run(ctx context.Context, maxWorkers int, paths []string, open OpenFunc) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	var g errgroup.Group
	g.SetLimit(maxWorkers)
	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Snapshot, results[i].Err = runOne(ctx, path, open)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runOne(ctx context.Context, path string, open OpenFunc) (domain.Snapshot, error) {
	loop, err := open(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	if err := loop.Run(ctx); err != nil {
		return domain.Snapshot{}, fmt.Errorf("run %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	snap, ok := loop.Latest()
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("run %s: %w: no cycle completed", path, domain.ErrUnavailable)
	}
	return snap, nil
}

// Err joins the errors of every failed result.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
