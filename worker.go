package arena

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/llxisdsh/arena/internal/logger"
)

var log = logger.New("arena")

// Target selects the cell(s) a Worker increments.
// A non-negative Target is a cell index.
type Target int

// All makes a Worker increment every cell in one critical section per iteration.
const All Target = -1

// Worker applies Iterations increments of Amount to an arena. Before each
// increment it sleeps for Delay, standing in for external work and widening
// the window in which workers contend for the guard.
//
// A Worker has no state besides its loop counter and produces no result.
type Worker[T Number] struct {
	Iterations int
	Delay      time.Duration
	Target     Target
	Amount     T
}

// Run executes the worker's loop on the calling goroutine.
//
// There is no error handling: an out-of-range Target panics inside the
// critical section, the guard is released, and the panic propagates.
func (w Worker[T]) Run(a *Arena[T]) {
	for range w.Iterations {
		if w.Delay > 0 {
			time.Sleep(w.Delay)
		}
		if w.Target == All {
			a.IncrementAll(w.Amount)
		} else {
			a.Increment(int(w.Target), w.Amount)
		}
	}
}

// Replicate returns n copies of w, or none if n <= 0.
func Replicate[T Number](n int, w Worker[T]) []Worker[T] {
	if n <= 0 {
		return nil
	}
	ws := make([]Worker[T], n)
	for i := range ws {
		ws[i] = w
	}
	return ws
}

// RunAll starts every worker on its own goroutine and blocks until all of
// them have returned. The workers are released together, so they contend
// from the first iteration. Once RunAll returns, a Snapshot of a holds the
// aggregate of every increment.
func RunAll[T Number](a *Arena[T], workers ...Worker[T]) {
	var (
		start Latch
		g     errgroup.Group
	)
	for i, w := range workers {
		g.Go(func() error {
			start.Wait()
			log.Debugf("worker %d started: %d iterations on target %d", i, w.Iterations, w.Target)
			w.Run(a)
			log.Debugf("worker %d finished", i)
			return nil
		})
	}
	start.Open()
	_ = g.Wait()
}
