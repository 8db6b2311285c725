package arena

import (
	"sort"

	"github.com/llxisdsh/pb"
	"github.com/rcrowley/go-metrics"
)

// Registry keeps named arenas so that several scenarios can run side by
// side. It is zero-value usable and safe for concurrent use.
type Registry[T Number] struct {
	// Guard is the guard kind of arenas created by Open.
	Guard GuardKind
	// Metrics, if set, receives each arena's metrics under "<name>.".
	Metrics metrics.Registry

	m pb.MapOf[string, *Arena[T]]
}

// Open returns the arena registered under name, creating it from initial
// if absent. created reports whether this call created it.
func (r *Registry[T]) Open(name string, initial ...T) (a *Arena[T], created bool) {
	return r.OpenWithOptions(name, initial)
}

// OpenWithOptions is like Open. When it creates the arena, opts are applied
// after the registry's own Guard and Metrics settings.
func (r *Registry[T]) OpenWithOptions(
	name string,
	initial []T,
	opts ...Option,
) (a *Arena[T], created bool) {
	r.m.ProcessEntry(
		name,
		func(l *pb.EntryOf[string, *Arena[T]]) (*pb.EntryOf[string, *Arena[T]], *Arena[T], bool) {
			if l != nil {
				a = l.Value
				return l, a, true
			}
			all := []Option{WithGuardKind(r.Guard)}
			if r.Metrics != nil {
				all = append(all, WithMetrics(metrics.NewPrefixedChildRegistry(r.Metrics, name+".")))
			}
			a = NewWithOptions(initial, append(all, opts...)...)
			created = true
			return &pb.EntryOf[string, *Arena[T]]{Key: name, Value: a}, a, false
		},
	)
	return a, created
}

// Lookup returns the arena registered under name.
func (r *Registry[T]) Lookup(name string) (*Arena[T], bool) {
	return r.m.Load(name)
}

// Release removes name from the registry. The arena itself stays valid for
// any worker still holding it; it is collected after the last one returns.
func (r *Registry[T]) Release(name string) bool {
	_, ok := r.m.ProcessEntry(
		name,
		func(l *pb.EntryOf[string, *Arena[T]]) (*pb.EntryOf[string, *Arena[T]], *Arena[T], bool) {
			if l != nil {
				return nil, l.Value, true
			}
			return nil, nil, false
		},
	)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	var names []string
	r.m.Range(func(name string, _ *Arena[T]) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
