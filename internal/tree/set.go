package tree

// Set is an identity set of nodes. The nil Set is empty and read-only.
type Set map[*Node]struct{}

// NewSet returns a set holding nodes.
func NewSet(nodes ...*Node) Set {
	s := make(Set, len(nodes))
	for _, n := range nodes {
		s.Add(n)
	}

	return s
}

// Add inserts n.
func (s Set) Add(n *Node) {
	s[n] = struct{}{}
}

// Has reports whether n is in the set.
func (s Set) Has(n *Node) bool {
	_, ok := s[n]
	return ok
}

// Remove deletes n.
func (s Set) Remove(n *Node) {
	delete(s, n)
}
