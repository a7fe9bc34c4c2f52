package tree

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// nodeDoc is the YAML form of a node.
//
//	name: Armature
//	position: [0, 1.2, 0]
//	materials: [Body, Face]
//	morphs:
//	  - {name: Smile, weight: 40}
//	components:
//	  - type: PhysBone
//	    props: {pull: 0.2}
//	    refs: {root: [Hips/Hair]}
//	children:
//	  - name: Hips
type nodeDoc struct {
	Name       string         `yaml:"name"`
	Active     *bool          `yaml:"active,omitempty"`
	Position   []float64      `yaml:"position,omitempty,flow"`
	Rotation   []float64      `yaml:"rotation,omitempty,flow"`
	Scale      []float64      `yaml:"scale,omitempty,flow"`
	Morphs     []shapeDoc     `yaml:"morphs,omitempty"`
	Materials  []string       `yaml:"materials,omitempty,flow"`
	Components []componentDoc `yaml:"components,omitempty"`
	Children   []nodeDoc      `yaml:"children,omitempty"`
}

type shapeDoc struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// componentDoc stores references as paths relative to the document root.
type componentDoc struct {
	Type  string              `yaml:"type"`
	Props map[string]any      `yaml:"props,omitempty"`
	Refs  map[string][]string `yaml:"refs,omitempty"`
}

// pendingRef collects component references until the whole tree exists.
type pendingRef struct {
	component *Component
	key       string
	paths     []string
}

// Load reads and parses a YAML tree file.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file %s: %w", path, err)
	}

	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return root, nil
}

// Parse builds a tree from YAML data. Component references are resolved
// against the document root after all nodes exist.
func Parse(data []byte) (*Node, error) {
	var doc nodeDoc

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tree YAML: %w", err)
	}

	var pending []pendingRef

	root, err := buildNode(&doc, nil, &pending)
	if err != nil {
		return nil, err
	}

	for _, p := range pending {
		targets := make([]*Node, 0, len(p.paths))

		for _, raw := range p.paths {
			target := root.Find(ParsePath(raw))
			if target == nil {
				return nil, fmt.Errorf("component %s: reference %s: node %q not found",
					p.component.Type, p.key, raw)
			}

			targets = append(targets, target)
		}

		p.component.Refs[p.key] = targets
	}

	return root, nil
}

func buildNode(doc *nodeDoc, parent *Node, pending *[]pendingRef) (*Node, error) {
	if doc.Name == "" {
		return nil, errors.New("node without name")
	}

	n := New(doc.Name)
	if doc.Active != nil {
		n.Active = *doc.Active
	}

	err := decodeTransform(doc, &n.Local)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", doc.Name, err)
	}

	if len(doc.Morphs) > 0 {
		mw := &MorphWeights{}
		for _, s := range doc.Morphs {
			mw.Shapes = append(mw.Shapes, Shape(s))
		}

		n.SetFacet(mw)
	}

	if len(doc.Materials) > 0 {
		n.SetFacet(&Materials{Slots: doc.Materials})
	}

	for _, cd := range doc.Components {
		if cd.Type == "" {
			return nil, fmt.Errorf("node %q: component without type", doc.Name)
		}

		if n.Component(cd.Type) != nil {
			return nil, fmt.Errorf("node %q: duplicate component %s", doc.Name, cd.Type)
		}

		c := &Component{Type: cd.Type, Props: cd.Props, Refs: make(map[string][]*Node)}
		if c.Props == nil {
			c.Props = make(map[string]any)
		}

		for key, paths := range cd.Refs {
			*pending = append(*pending, pendingRef{component: c, key: key, paths: paths})
		}

		n.SetFacet(c)
	}

	if parent != nil {
		err = parent.AddChild(n)
		if err != nil {
			return nil, err
		}
	}

	for i := range doc.Children {
		_, err = buildNode(&doc.Children[i], n, pending)
		if err != nil {
			return nil, err
		}
	}

	return n, nil
}

func decodeTransform(doc *nodeDoc, t *Transform) error {
	if doc.Position != nil {
		if len(doc.Position) != 3 {
			return fmt.Errorf("position needs 3 values, got %d", len(doc.Position))
		}

		copy(t.Position[:], doc.Position)
	}

	if doc.Rotation != nil {
		if len(doc.Rotation) != 4 {
			return fmt.Errorf("rotation needs 4 values (x y z w), got %d", len(doc.Rotation))
		}

		copy(t.Rotation[:], doc.Rotation)
	}

	if doc.Scale != nil {
		if len(doc.Scale) != 3 {
			return fmt.Errorf("scale needs 3 values, got %d", len(doc.Scale))
		}

		copy(t.Scale[:], doc.Scale)
	}

	return nil
}

// Marshal serializes the tree rooted at root to YAML. Component references
// that point outside the tree are an error.
func Marshal(root *Node) ([]byte, error) {
	doc, err := encodeNode(root, root)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(doc)
}

// WriteFile writes the tree rooted at root to path.
func WriteFile(root *Node, path string) error {
	data, err := Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write tree file %s: %w", path, err)
	}

	return nil
}

func encodeNode(n, root *Node) (nodeDoc, error) {
	doc := nodeDoc{Name: n.Name}

	if !n.Active {
		inactive := false
		doc.Active = &inactive
	}

	identity := Identity()
	if n.Local.Position != identity.Position {
		doc.Position = n.Local.Position[:]
	}

	if n.Local.Rotation != identity.Rotation {
		doc.Rotation = n.Local.Rotation[:]
	}

	if n.Local.Scale != identity.Scale {
		doc.Scale = n.Local.Scale[:]
	}

	for _, f := range n.Facets() {
		switch facet := f.(type) {
		case *MorphWeights:
			for _, s := range facet.Shapes {
				doc.Morphs = append(doc.Morphs, shapeDoc(s))
			}
		case *Materials:
			doc.Materials = facet.Slots
		case *Component:
			cd := componentDoc{Type: facet.Type, Props: facet.Props}

			for _, key := range facet.RefKeys() {
				if cd.Refs == nil {
					cd.Refs = make(map[string][]string)
				}

				for _, target := range facet.Refs[key] {
					p, ok := target.PathFrom(root)
					if !ok {
						return nodeDoc{}, fmt.Errorf("node %q: component %s: reference %s leaves the tree",
							n.Name, facet.Type, key)
					}

					cd.Refs[key] = append(cd.Refs[key], p.String())
				}
			}

			doc.Components = append(doc.Components, cd)
		}
	}

	for _, c := range n.children {
		child, err := encodeNode(c, root)
		if err != nil {
			return nodeDoc{}, err
		}

		doc.Children = append(doc.Children, child)
	}

	return doc, nil
}
