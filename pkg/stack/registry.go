package stack

import (
	"slices"

	"github.com/matzehuels/stackchart/pkg/errors"
)

// Membership is the ordered list of series ids stacking together in Group.
type Membership struct {
	Group  string
	Series []string
}

// Registry owns the stackers of one chart.
//
// It is not safe for concurrent use; the chart serializes passes and is the
// only caller.
type Registry struct {
	stackers map[string]*Stacker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stackers: make(map[string]*Stacker)}
}

// Begin prepares the registry for a pass over groups. Groups whose ordered
// membership is unchanged keep their stacker; changed groups get a new one;
// groups no longer present are dropped. All stackers start the pass with
// empty totals. It returns the number of stackers that were rebuilt.
func (r *Registry) Begin(groups []Membership) int {
	rebuilt := 0
	seen := make(map[string]bool, len(groups))
	for _, m := range groups {
		seen[m.Group] = true
		s, ok := r.stackers[m.Group]
		if !ok || !slices.Equal(s.members, m.Series) {
			r.stackers[m.Group] = New(m.Group, m.Series)
			rebuilt++
			continue
		}
		s.Reset()
	}
	for g := range r.stackers {
		if !seen[g] {
			delete(r.stackers, g)
		}
	}
	return rebuilt
}

// Reset clears the totals of every stacker without touching membership.
// The chart calls it between the bounds phase and the measure phase.
func (r *Registry) Reset() {
	for _, s := range r.stackers {
		s.Reset()
	}
}

// Lookup returns the stacker of group. A missing stacker is a contract
// violation: Begin must have declared every group before any series asks.
func (r *Registry) Lookup(group string) (*Stacker, error) {
	s, ok := r.stackers[group]
	if !ok || s == nil {
		return nil, errors.Contract("no stacker for stack group %q", group)
	}
	return s, nil
}

// Len returns the number of live stack groups.
func (r *Registry) Len() int { return len(r.stackers) }
