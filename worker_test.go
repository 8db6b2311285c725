package arena

import (
	"slices"
	"testing"
	"time"
)

func TestWorkerRun(t *testing.T) {
	a := New(0, 10)
	Worker[int]{Iterations: 5, Target: 1, Amount: 3}.Run(a)
	Worker[int]{Iterations: 2, Target: All, Amount: -1}.Run(a)
	if got, want := a.Snapshot(), []int{-2, 23}; !slices.Equal(got, want) {
		t.Fatalf("snapshot = %v, want %v", got, want)
	}
}

func TestWorkerZeroIterations(t *testing.T) {
	a := New(1.5)
	RunAll(a, Worker[float64]{Iterations: 0, Target: 7, Amount: 1})
	if v := a.Value(0); v != 1.5 {
		t.Fatalf("value = %v, want 1.5", v)
	}
}

func TestWorkerDelay(t *testing.T) {
	a := New[int64](0)
	start := time.Now()
	RunAll(a, Replicate(3, Worker[int64]{Iterations: 5, Delay: 10 * time.Millisecond, Amount: 1})...)
	if d := time.Since(start); d < 50*time.Millisecond {
		t.Fatalf("RunAll returned after %v, want >= 50ms", d)
	}
	if v := a.Value(0); v != 15 {
		t.Fatalf("value = %d, want 15", v)
	}
}

func TestReplicate(t *testing.T) {
	w := Worker[int]{Iterations: 1, Target: 2, Amount: 4}
	ws := Replicate(3, w)
	if len(ws) != 3 {
		t.Fatalf("len = %d, want 3", len(ws))
	}
	for _, got := range ws {
		if got != w {
			t.Fatalf("replica = %+v, want %+v", got, w)
		}
	}
	for _, n := range []int{0, -1} {
		if ws := Replicate(n, w); len(ws) != 0 {
			t.Fatalf("Replicate(%d) = %v, want empty", n, ws)
		}
	}
}

func TestRunAllNoWorkers(t *testing.T) {
	a := New(1, 2)
	RunAll(a)
	if got, want := a.Snapshot(), []int{1, 2}; !slices.Equal(got, want) {
		t.Fatalf("snapshot = %v, want %v", got, want)
	}
}
