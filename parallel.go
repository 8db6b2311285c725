package arena

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelMap applies fn to every element of in using at most workers
// concurrent calls and returns the results in input order, whatever the
// completion order. workers <= 0 means one per CPU.
//
// The first error cancels ctx for the remaining calls and is returned.
// ParallelMap shares no state between calls; it is unrelated to Arena.
func ParallelMap[In, Out any](
	ctx context.Context,
	workers int,
	in []In,
	fn func(context.Context, In) (Out, error),
) ([]Out, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make([]Out, len(in))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, v := range in {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, v)
			if err != nil {
				return fmt.Errorf("arena: element %d: %w", i, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Map applies a pure function to every element of in, one worker per CPU,
// preserving input order.
func Map[In, Out any](in []In, fn func(In) Out) []Out {
	out, _ := ParallelMap(context.Background(), 0, in,
		func(_ context.Context, v In) (Out, error) {
			return fn(v), nil
		})
	return out
}

// Spawn runs fn(0) through fn(n-1) on n goroutines and waits for all of
// them. n <= 0 means one goroutine per CPU.
func Spawn(n int, fn func(i int)) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
