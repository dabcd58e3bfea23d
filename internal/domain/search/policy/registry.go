package policy

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Registry holds the live set of endpoint policies. Readers see either the
// old or the new set, never a mix.
type Registry struct {
	current atomic.Pointer[map[string]Policy]
}

// NewRegistry creates a registry populated with policies.
func NewRegistry(policies ...Policy) (*Registry, error) {
	r := &Registry{}
	if err := r.Replace(policies); err != nil {
		return nil, err
	}
	return r, nil
}

// Replace normalizes policies and swaps them in atomically.
// On error the previous set stays live.
func (r *Registry) Replace(policies []Policy) error {
	next := make(map[string]Policy, len(policies))
	for _, p := range policies {
		np, err := p.Normalize()
		if err != nil {
			return err
		}
		if _, dup := next[np.Name]; dup {
			return fmt.Errorf("duplicate endpoint %q", np.Name)
		}
		next[np.Name] = np
	}
	r.current.Store(&next)
	return nil
}

// Get returns the policy registered under name.
func (r *Registry) Get(name string) (Policy, bool) {
	m := r.current.Load()
	if m == nil {
		return Policy{}, false
	}
	p, ok := (*m)[name]
	return p, ok
}

// List returns all policies ordered by name.
func (r *Registry) List() []Policy {
	m := r.current.Load()
	if m == nil {
		return nil
	}
	out := make([]Policy, 0, len(*m))
	for _, p := range *m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
