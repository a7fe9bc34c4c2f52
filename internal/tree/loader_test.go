package tree

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rigYAML = `
name: Avatar
children:
  - name: Hips
    position: [0, 1, 0]
    children:
      - name: Hair
        active: false
        rotation: [0, 0.7071, 0, 0.7071]
        components:
          - type: PhysBone
            props: {pull: 0.2, immobile: 0.5}
            refs:
              root: [Hips/Hair]
              colliders: [Hips]
  - name: Body
    materials: [Skin, Cloth]
    morphs:
      - {name: Smile, weight: 40}
      - {name: Blink, weight: 0}
`

func TestParse(t *testing.T) {
	root, err := Parse([]byte(rigYAML))
	require.NoError(t, err)

	assert.Equal(t, "Avatar", root.Name)
	require.Equal(t, 2, root.ChildCount())

	hips := root.Child("Hips")
	assert.Equal(t, Vec3{0, 1, 0}, hips.Local.Position)
	assert.Equal(t, Vec3{1, 1, 1}, hips.Local.Scale)

	hair := root.Find(ParsePath("Hips/Hair"))
	require.NotNil(t, hair)
	assert.False(t, hair.Active)

	pb := hair.Component("PhysBone")
	require.NotNil(t, pb)
	assert.Equal(t, []*Node{hair}, pb.Refs["root"])
	assert.Equal(t, []*Node{hips}, pb.Refs["colliders"])
	assert.InDelta(t, 0.2, pb.Props["pull"], 1e-9)

	body := root.Child("Body")
	f, ok := body.Facet(KindMaterials)
	require.True(t, ok)
	assert.Equal(t, []string{"Skin", "Cloth"}, f.(*Materials).Slots)

	f, ok = body.Facet(KindMorphWeights)
	require.True(t, ok)
	w, _ := f.(*MorphWeights).Weight("Smile")
	assert.InDelta(t, 40.0, w, 1e-9)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"missing name", "children: [{name: A}]", "without name"},
		{"bad position", "name: A\nposition: [1, 2]", "position needs 3"},
		{"dangling ref", "name: A\ncomponents: [{type: X, refs: {r: [Nope]}}]", "not found"},
		{"duplicate component", "name: A\ncomponents: [{type: X}, {type: X}]", "duplicate component"},
		{"invalid yaml", "name: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestWriteFileAndLoad(t *testing.T) {
	root, err := Parse([]byte(rigYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rig.yaml")
	require.NoError(t, WriteFile(root, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	hair := loaded.Find(ParsePath("Hips/Hair"))
	require.NotNil(t, hair)
	assert.False(t, hair.Active)
	assert.Equal(t, root.Find(ParsePath("Hips/Hair")).Local, hair.Local)
	assert.Equal(t, []*Node{loaded.Child("Hips")}, hair.Component("PhysBone").Refs["colliders"])
}

func TestMarshal_ReferenceOutsideTree(t *testing.T) {
	root := New("A")
	stray := New("Stray")
	root.SetFacet(&Component{Type: "X", Refs: map[string][]*Node{"r": {stray}}})

	_, err := Marshal(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaves the tree")
}
