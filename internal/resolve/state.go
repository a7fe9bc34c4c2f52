package resolve

import (
	"rig-mapper/internal/tree"
)

// RunState is the resolution state of one (source root, target root) pair.
// It lives from Resolver.Begin until the next Begin.
type RunState struct {
	resolved    map[*tree.Node]*tree.Node
	skipped     tree.Set
	autoCreated tree.Set
	stopped     bool
}

func newRunState() *RunState {
	return &RunState{
		resolved:    make(map[*tree.Node]*tree.Node),
		skipped:     tree.NewSet(),
		autoCreated: tree.NewSet(),
	}
}

// Resolved returns the cached target of source.
func (s *RunState) Resolved(source *tree.Node) (*tree.Node, bool) {
	t, ok := s.resolved[source]
	return t, ok
}

// ResolvedCount returns the number of cached resolutions.
func (s *RunState) ResolvedCount() int {
	return len(s.resolved)
}

// IsSkipped reports whether the human chose to skip source.
func (s *RunState) IsSkipped(source *tree.Node) bool {
	return s.skipped.Has(source)
}

// IsAutoCreated reports whether target was created by the resolver.
func (s *RunState) IsAutoCreated(target *tree.Node) bool {
	return s.autoCreated.Has(target)
}

// AutoCreated returns the nodes created by the resolver in pre-order of
// the target tree.
func (s *RunState) AutoCreated(targetRoot *tree.Node) []*tree.Node {
	var out []*tree.Node

	targetRoot.Walk(func(n *tree.Node) bool {
		if s.autoCreated.Has(n) {
			out = append(out, n)
		}

		return true
	})

	return out
}

// Stopped reports whether a Stop decision ended the run.
func (s *RunState) Stopped() bool {
	return s.stopped
}

func (s *RunState) reset() {
	clear(s.skipped)
	clear(s.autoCreated)
	s.stopped = false
}
