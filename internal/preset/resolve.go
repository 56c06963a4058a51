package preset

import (
	"fmt"

	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
)

// Resolve returns the merge plan of id: every preset it transitively extends,
// ancestors first, ending with id itself.
func (s *Store[T]) Resolve(id string) ([]Preset[T], error) {
	r := s.resolver()
	if err := r.walk(normalize(id), ""); err != nil {
		return nil, err
	}
	return r.plan, nil
}

// Plan returns the merge plan for a root preset plus the extends list of an
// inline override. Either may be empty. A preset reachable from both is
// merged once, at its first position.
func (s *Store[T]) Plan(id string, extends []string) ([]Preset[T], error) {
	r := s.resolver()
	if id != "" {
		if err := r.walk(normalize(id), ""); err != nil {
			return nil, err
		}
	}
	for _, ext := range extends {
		if err := r.walk(normalize(ext), "<inline>"); err != nil {
			return nil, err
		}
	}
	return r.plan, nil
}

type resolver[T any] struct {
	store *Store[T]
	done  map[string]bool
	plan  []Preset[T]
}

func (s *Store[T]) resolver() *resolver[T] {
	return &resolver[T]{store: s, done: map[string]bool{}}
}

// walk is an iterative depth-first traversal from root. inflight holds the
// chain of presets being expanded, so a child already in it closes a cycle.
func (r *resolver[T]) walk(root, referrer string) error {
	if r.done[root] {
		return nil
	}
	if _, ok := r.store.presets[root]; !ok {
		return &NotFoundError{Dialect: r.store.dialect, ID: root, Referrer: referrer}
	}

	stack := []string{root}
	var inflight []string
	expanding := map[string]bool{}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		if r.done[id] {
			stack = stack[:len(stack)-1]
			continue
		}
		if !expanding[id] {
			expanding[id] = true
			inflight = append(inflight, id)
			ext := r.store.presets[id].Extends
			for i := len(ext) - 1; i >= 0; i-- {
				child := ext[i]
				if expanding[child] {
					chain := append(append([]string(nil), inflight...), child)
					return &CycleError{Dialect: r.store.dialect, Chain: chain}
				}
				if _, ok := r.store.presets[child]; !ok {
					return &NotFoundError{Dialect: r.store.dialect, ID: child, Referrer: id}
				}
				if !r.done[child] {
					stack = append(stack, child)
				}
			}
			continue
		}
		stack = stack[:len(stack)-1]
		inflight = inflight[:len(inflight)-1]
		delete(expanding, id)
		r.done[id] = true
		r.plan = append(r.plan, r.store.presets[id])
	}
	return nil
}

// Override is an inline preset body supplied with a request.
type Override[T any] struct {
	Extends []string
	Body    T
}

// Compose resolves id and folds the dialect default, the plan and the
// override into a fresh value. Neither the store nor the override is
// modified. An empty id composes the override alone.
func Compose[T any](s *Store[T], id string, override *Override[T]) (T, error) {
	var extends []string
	if override != nil {
		extends = override.Extends
	}
	out := schema.Default[T]()
	plan, err := s.Plan(id, extends)
	if err != nil {
		return out, err
	}
	for _, p := range plan {
		out, err = merge.Merge(out, p.Body)
		if err != nil {
			return out, fmt.Errorf("merging %s preset %q: %w", s.dialect, p.ID, err)
		}
	}
	if override != nil {
		out, err = merge.Merge(out, override.Body)
		if err != nil {
			return out, fmt.Errorf("merging inline %s override: %w", s.dialect, err)
		}
	}
	return out, nil
}
