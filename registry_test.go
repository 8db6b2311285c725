package arena

import (
	"slices"
	"sync"
	"testing"

	"github.com/rcrowley/go-metrics"
)

func TestRegistryOpen(t *testing.T) {
	var r Registry[int]
	a, created := r.Open("value", 0)
	if !created {
		t.Fatal("first Open did not create")
	}
	b, created := r.Open("value", 42)
	if created || a != b {
		t.Fatal("second Open did not return the existing arena")
	}
	if v := b.Value(0); v != 0 {
		t.Fatalf("value = %d, want 0", v)
	}
	if got, ok := r.Lookup("value"); !ok || got != a {
		t.Fatal("Lookup did not find the arena")
	}
	if _, ok := r.Lookup("array"); ok {
		t.Fatal("Lookup found an unknown name")
	}
}

func TestRegistryConcurrentOpen(t *testing.T) {
	var r Registry[int64]
	const n = 32
	arenas := make([]*Arena[int64], n)
	var created int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			a, c := r.Open("shared", 0)
			arenas[i] = a
			if c {
				mu.Lock()
				created++
				mu.Unlock()
			}
			a.Increment(0, 1)
		}()
	}
	wg.Wait()
	if created != 1 {
		t.Fatalf("created %d arenas, want 1", created)
	}
	for _, a := range arenas {
		if a != arenas[0] {
			t.Fatal("Open returned different arenas for one name")
		}
	}
	if v := arenas[0].Value(0); v != n {
		t.Fatalf("value = %d, want %d", v, n)
	}
}

func TestRegistryReleaseAndNames(t *testing.T) {
	var r Registry[float64]
	r.Open("b", 1)
	r.Open("a", 1, 2)
	r.Open("c")
	if got, want := r.Names(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	a, _ := r.Lookup("a")
	if !r.Release("a") {
		t.Fatal("Release(a) = false")
	}
	if r.Release("a") {
		t.Fatal("second Release(a) = true")
	}
	a.IncrementAll(1)
	if got, want := a.Snapshot(), []float64{2, 3}; !slices.Equal(got, want) {
		t.Fatalf("released arena snapshot = %v, want %v", got, want)
	}
	if got, want := r.Names(), []string{"b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestRegistryMetrics(t *testing.T) {
	m := metrics.NewRegistry()
	r := Registry[int]{Guard: GuardTicket, Metrics: m}
	a, _ := r.Open("value", 0)
	RunAll(a, Replicate(2, Worker[int]{Iterations: 10, Amount: 1})...)
	if n := metrics.GetOrRegisterCounter("value."+MetricIncrements, m).Count(); n != 20 {
		t.Fatalf("value increments = %d, want 20", n)
	}
	if _, ok := a.guard.(*TicketLock); !ok {
		t.Fatalf("guard = %T, want *TicketLock", a.guard)
	}
}
