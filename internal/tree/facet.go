package tree

import (
	"maps"
	"slices"
)

// Facet kinds understood by the bundled transfer plugins.
const (
	KindMorphWeights = "morph_weights"
	KindMaterials    = "materials"
	// componentKindPrefix namespaces component facets by their type tag.
	componentKindPrefix = "component:"
)

// Facet is a typed payload attached to a node. A node holds at most one
// facet per kind.
type Facet interface {
	FacetKind() string
	CloneFacet() Facet
}

// Facet returns the facet of the given kind.
func (n *Node) Facet(kind string) (Facet, bool) {
	if n == nil {
		return nil, false
	}

	f, ok := n.facets[kind]

	return f, ok
}

// SetFacet stores f, replacing any facet of the same kind.
func (n *Node) SetFacet(f Facet) {
	if n.facets == nil {
		n.facets = make(map[string]Facet)
	}

	n.facets[f.FacetKind()] = f
}

// RemoveFacet deletes the facet of the given kind.
func (n *Node) RemoveFacet(kind string) {
	delete(n.facets, kind)
}

// Facets returns all facets sorted by kind.
func (n *Node) Facets() []Facet {
	if n == nil {
		return nil
	}

	kinds := slices.Sorted(maps.Keys(n.facets))
	out := make([]Facet, 0, len(kinds))

	for _, k := range kinds {
		out = append(out, n.facets[k])
	}

	return out
}

// Shape is one named morph target weight.
type Shape struct {
	Name   string
	Weight float64
}

// MorphWeights holds the blend weights of a deformable mesh, in mesh order.
type MorphWeights struct {
	Shapes []Shape
}

func (m *MorphWeights) FacetKind() string { return KindMorphWeights }

func (m *MorphWeights) CloneFacet() Facet {
	return &MorphWeights{Shapes: slices.Clone(m.Shapes)}
}

// Index returns the position of the named shape, or -1.
func (m *MorphWeights) Index(name string) int {
	return slices.IndexFunc(m.Shapes, func(s Shape) bool { return s.Name == name })
}

// Weight returns the weight of the named shape.
func (m *MorphWeights) Weight(name string) (float64, bool) {
	i := m.Index(name)
	if i < 0 {
		return 0, false
	}

	return m.Shapes[i].Weight, true
}

// SetWeight updates an existing shape and reports whether it was found.
func (m *MorphWeights) SetWeight(name string, weight float64) bool {
	i := m.Index(name)
	if i < 0 {
		return false
	}

	m.Shapes[i].Weight = weight

	return true
}

// Materials is the ordered material list of a renderer.
type Materials struct {
	Slots []string
}

func (m *Materials) FacetKind() string { return KindMaterials }

func (m *Materials) CloneFacet() Facet {
	return &Materials{Slots: slices.Clone(m.Slots)}
}

// Component is a generic tagged payload: scalar properties plus references
// to other nodes of the same tree.
type Component struct {
	Type  string
	Props map[string]any
	Refs  map[string][]*Node
}

// ComponentKind returns the facet kind used for components of type typ.
func ComponentKind(typ string) string {
	return componentKindPrefix + typ
}

func (c *Component) FacetKind() string { return ComponentKind(c.Type) }

// CloneFacet copies properties and reference lists; referenced nodes are
// shared, not cloned.
func (c *Component) CloneFacet() Facet {
	out := &Component{
		Type:  c.Type,
		Props: maps.Clone(c.Props),
		Refs:  make(map[string][]*Node, len(c.Refs)),
	}

	for k, v := range c.Refs {
		out.Refs[k] = slices.Clone(v)
	}

	return out
}

// RefKeys returns the reference names in sorted order.
func (c *Component) RefKeys() []string {
	return slices.Sorted(maps.Keys(c.Refs))
}

// Component returns the component of the given type.
func (n *Node) Component(typ string) *Component {
	f, ok := n.Facet(ComponentKind(typ))
	if !ok {
		return nil
	}

	c, _ := f.(*Component)

	return c
}

// Components returns the node's components sorted by type.
func (n *Node) Components() []*Component {
	var out []*Component

	for _, f := range n.Facets() {
		if c, ok := f.(*Component); ok {
			out = append(out, c)
		}
	}

	return out
}
