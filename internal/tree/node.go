package tree

import (
	"errors"
	"fmt"
	"slices"
)

// ErrCycle is returned when attaching a node beneath one of its descendants.
var ErrCycle = errors.New("tree: node would become its own ancestor")

// Node is a named element of a hierarchy.
//
// Children are ordered; a node has at most one parent. The zero value is a
// detached, inactive node with a zero transform; use New for a usable node.
type Node struct {
	Name   string
	Active bool
	Local  Transform

	parent   *Node
	children []*Node
	facets   map[string]Facet
}

// New creates a detached, active node with an identity transform.
func New(name string) *Node {
	return &Node{
		Name:   name,
		Active: true,
		Local:  Identity(),
	}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}

	return n.parent
}

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}

	return slices.Clone(n.children)
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}

	return len(n.children)
}

// AddChild appends child to n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) error {
	if n == nil || child == nil {
		return errors.New("tree: nil node")
	}

	if child == n || n.IsDescendantOf(child) {
		return fmt.Errorf("%w: %q under %q", ErrCycle, child.Name, n.Name)
	}

	child.Detach()
	child.parent = n
	n.children = append(n.children, child)

	return nil
}

// NewChild creates an active child with an identity transform and appends it.
func (n *Node) NewChild(name string) *Node {
	child := New(name)
	child.parent = n
	n.children = append(n.children, child)

	return child
}

// Detach removes n from its parent's child list.
func (n *Node) Detach() {
	if n == nil || n.parent == nil {
		return
	}

	siblings := n.parent.children
	if i := slices.Index(siblings, n); i >= 0 {
		n.parent.children = slices.Delete(siblings, i, i+1)
	}

	n.parent = nil
}

// Child returns the first direct child named name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}

	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// Find walks p from n, taking the first child with a matching name at every
// step. An empty path returns n.
func (n *Node) Find(p Path) *Node {
	current := n
	for _, name := range p {
		current = current.Child(name)
		if current == nil {
			return nil
		}
	}

	return current
}

// PathFrom returns the path from root down to n. The boolean is false when n
// does not lie under root; the returned path is then rooted at n's own root.
func (n *Node) PathFrom(root *Node) (Path, bool) {
	if n == nil {
		return nil, false
	}

	var reversed []string

	current := n
	for current != nil && current != root {
		reversed = append(reversed, current.Name)
		current = current.parent
	}

	under := root != nil && current == root
	if !under {
		// n's own root was included in the walk; drop it so the path stays
		// relative to that root.
		reversed = reversed[:len(reversed)-1]
	}

	slices.Reverse(reversed)

	return Path(reversed), under
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	current := n
	for current != nil && current.parent != nil {
		current = current.parent
	}

	return current
}

// Depth returns the number of ancestors above n.
func (n *Node) Depth() int {
	depth := 0
	for current := n.Parent(); current != nil; current = current.parent {
		depth++
	}

	return depth
}

// SiblingIndex returns n's position among its parent's children, or 0 for a root.
func (n *Node) SiblingIndex() int {
	if n == nil || n.parent == nil {
		return 0
	}

	return slices.Index(n.parent.children, n)
}

// IsDescendantOf reports whether ancestor lies strictly above n.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	if ancestor == nil {
		return false
	}

	for current := n.Parent(); current != nil; current = current.parent {
		if current == ancestor {
			return true
		}
	}

	return false
}

// Walk visits n and its descendants in depth-first pre-order. Returning false
// from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}

	if !fn(n) {
		return
	}

	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Descendants returns n and every node below it in pre-order.
func (n *Node) Descendants() []*Node {
	var out []*Node

	n.Walk(func(node *Node) bool {
		out = append(out, node)
		return true
	})

	return out
}

// String returns the node name.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	return n.Name
}
