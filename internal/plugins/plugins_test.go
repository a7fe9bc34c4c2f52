package plugins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/resolve"
	"rig-mapper/internal/transfer"
	"rig-mapper/internal/tree"
)

func build(rootName string, paths ...string) *tree.Node {
	root := tree.New(rootName)
	for _, raw := range paths {
		parent := root
		for _, name := range tree.ParsePath(raw) {
			child := parent.Child(name)
			if child == nil {
				child = parent.NewChild(name)
			}

			parent = child
		}
	}

	return root
}

func find(t *testing.T, root *tree.Node, path string) *tree.Node {
	t.Helper()

	n := root.Find(tree.ParsePath(path))
	require.NotNil(t, n, "node %s", path)

	return n
}

// always answers every prompt with d and counts the prompts.
func always(d decision.Decision, count *int) resolve.Prompter {
	return resolve.PrompterFunc(func(context.Context, resolve.Request) (decision.Decision, error) {
		*count++
		return d, nil
	})
}

func run(t *testing.T, p transfer.Plugin, prompter resolve.Prompter, src *tree.Node, targets ...*tree.Node) transfer.Report {
	t.Helper()

	opts := []transfer.Option{}
	if prompter != nil {
		opts = append(opts, transfer.WithPrompter(prompter))
	}

	return transfer.NewExecutor([]transfer.Plugin{p}, opts...).Run(context.Background(), src, targets, nil)
}

func TestMaterials_CreatesMissingNodeOnce(t *testing.T) {
	src := build("Root", "Arm/Hand")
	hand := find(t, src, "Arm/Hand")
	hand.Local.Position = tree.Vec3{0.1, 0.2, 0.3}
	hand.SetFacet(&tree.Materials{Slots: []string{"Skin", "Nails"}})

	dst := build("Root", "Arm")
	prompts := 0
	plugin := NewMaterials()

	report := run(t, plugin, always(decision.Create(), &prompts), src, dst)
	require.True(t, report.Success, report.Diagnostics.All())

	created := find(t, dst, "Arm/Hand")
	assert.Equal(t, hand.Local, created.Local)

	f, ok := created.Facet(tree.KindMaterials)
	require.True(t, ok)
	assert.Equal(t, []string{"Skin", "Nails"}, f.(*tree.Materials).Slots)
	assert.Equal(t, 1, prompts)

	// Running again neither duplicates the node nor appends materials.
	report = run(t, plugin, always(decision.Create(), &prompts), src, dst)
	require.True(t, report.Success)
	assert.Equal(t, 1, find(t, dst, "Arm").ChildCount())
	assert.Equal(t, 1, prompts)

	f, _ = find(t, dst, "Arm/Hand").Facet(tree.KindMaterials)
	assert.Equal(t, []string{"Skin", "Nails"}, f.(*tree.Materials).Slots)

	// The copy is independent of the source.
	hand.SetFacet(&tree.Materials{Slots: []string{"Glove"}})
	assert.Equal(t, []string{"Skin", "Nails"}, f.(*tree.Materials).Slots)
}

func TestMaterials_StopEndsTransfer(t *testing.T) {
	src := build("Root", "Arm/Hand", "Arm/Foot")
	find(t, src, "Arm/Hand").SetFacet(&tree.Materials{Slots: []string{"A"}})
	find(t, src, "Arm/Foot").SetFacet(&tree.Materials{Slots: []string{"B"}})

	dst := build("Root", "Arm")
	prompts := 0
	plugin := NewMaterials()

	report := run(t, plugin, always(decision.StopRun(), &prompts), src, dst)

	assert.False(t, report.Success)
	assert.Equal(t, transfer.OutcomeStopped, report.Outcome)
	assert.Equal(t, 1, prompts)
	assert.True(t, plugin.Stopped())
}

func TestActiveState(t *testing.T) {
	src := build("Root", "Hips/Hat", "Hips/Cape")
	find(t, src, "Hips/Hat").Active = false

	dst := build("Root", "Hips/Hat")

	plugin := NewActiveState()
	assert.True(t, plugin.CanTransfer(src, dst))
	assert.False(t, plugin.CanTransfer(src, nil))

	report := run(t, plugin, nil, src, dst)

	assert.True(t, report.Success)
	assert.False(t, find(t, dst, "Hips/Hat").Active)
	assert.True(t, find(t, dst, "Hips").Active)
	assert.Nil(t, dst.Find(tree.Path{"Hips", "Cape"}))
}

func TestMorphWeights(t *testing.T) {
	src := build("Root", "Body", "Face")
	find(t, src, "Body").SetFacet(&tree.MorphWeights{Shapes: []tree.Shape{
		{Name: "smile", Weight: 50},
		{Name: "blink", Weight: 100},
	}})

	dst := build("Root", "Body")
	target := &tree.MorphWeights{Shapes: []tree.Shape{
		{Name: "smile", Weight: 0},
		{Name: "frown", Weight: 10},
	}}
	find(t, dst, "Body").SetFacet(target)

	plugin := NewMorphWeights()
	require.True(t, plugin.CanTransfer(src, dst))

	report := run(t, plugin, nil, src, dst)
	require.True(t, report.Success)

	w, ok := target.Weight("smile")
	require.True(t, ok)
	assert.InDelta(t, 50, w, 1e-9)

	w, _ = target.Weight("frown")
	assert.InDelta(t, 10, w, 1e-9)

	_, ok = target.Weight("blink")
	assert.False(t, ok)
}

func TestMorphWeights_TargetWithoutShapes(t *testing.T) {
	src := build("Root", "Body")
	find(t, src, "Body").SetFacet(&tree.MorphWeights{Shapes: []tree.Shape{{Name: "smile", Weight: 1}}})

	report := run(t, NewMorphWeights(), nil, src, build("Root", "Body"))

	assert.False(t, report.Success)
	assert.Equal(t, transfer.OutcomeFailed, report.Outcome)
}

func TestMorphWeights_NothingToTransfer(t *testing.T) {
	assert.False(t, NewMorphWeights().CanTransfer(build("Root", "Body"), build("Root")))
	assert.False(t, NewMaterials().CanTransfer(build("Root", "Body"), build("Root")))
	assert.False(t, NewPhysBone().CanTransfer(build("Root", "Body"), build("Root")))
}

func physBoneTrees(t *testing.T) (src, dst *tree.Node) {
	src = build("Root", "Hips/Hair", "Hips/Head")
	hair := find(t, src, "Hips/Hair")
	head := find(t, src, "Hips/Head")

	hair.SetFacet(&tree.Component{
		Type:  KindPhysBone,
		Props: map[string]any{"pull": 0.2},
		Refs:  map[string][]*tree.Node{"root": {hair}, physBoneColliders: {head}},
	})
	head.SetFacet(&tree.Component{
		Type:  KindPhysBoneCollider,
		Props: map[string]any{"radius": 0.1},
		Refs:  map[string][]*tree.Node{"root": {head}},
	})

	return src, build("Root", "Hips/Hair", "Hips/Head")
}

func TestPhysBone(t *testing.T) {
	src, dst := physBoneTrees(t)
	plugin := NewPhysBone()
	require.True(t, plugin.CanTransfer(src, dst))

	report := run(t, plugin, nil, src, dst)
	require.True(t, report.Success)

	hair := find(t, dst, "Hips/Hair")
	head := find(t, dst, "Hips/Head")

	bone := hair.Component(KindPhysBone)
	require.NotNil(t, bone)
	assert.Equal(t, 0.2, bone.Props["pull"])
	assert.Equal(t, []*tree.Node{hair}, bone.Refs["root"])
	assert.Equal(t, []*tree.Node{head}, bone.Refs[physBoneColliders])

	collider := head.Component(KindPhysBoneCollider)
	require.NotNil(t, collider)
	assert.Equal(t, []*tree.Node{head}, collider.Refs["root"])
}

func TestPhysBone_CollidersDisabled(t *testing.T) {
	src, dst := physBoneTrees(t)
	plugin := NewPhysBone()

	require.NoError(t, plugin.ApplySettings(map[string]any{"colliders": "false"}))
	assert.Equal(t, false, plugin.Settings()[1].Value)

	report := run(t, plugin, nil, src, dst)
	require.True(t, report.Success)

	bone := find(t, dst, "Hips/Hair").Component(KindPhysBone)
	require.NotNil(t, bone)
	assert.NotContains(t, bone.Refs, physBoneColliders)
	assert.Nil(t, find(t, dst, "Hips/Head").Component(KindPhysBoneCollider))

	require.Error(t, plugin.ApplySettings(map[string]any{"springs": true}))
}

func TestConstraints_DropsUnresolvedSources(t *testing.T) {
	src := build("Root", "Hips/Head", "Hips/Hat", "Hips/Ghost")
	find(t, src, "Hips/Hat").SetFacet(&tree.Component{
		Type:  KindParentConstraint,
		Props: map[string]any{constraintWeights: []any{0.5, 1.0}, "active": true},
		Refs: map[string][]*tree.Node{
			constraintSources: {find(t, src, "Hips/Head"), find(t, src, "Hips/Ghost")},
		},
	})

	dst := build("Root", "Hips/Head", "Hips/Hat")
	prompts := 0
	plugin := NewConstraints()

	report := run(t, plugin, always(decision.SkipNode(), &prompts), src, dst)
	require.True(t, report.Success)
	assert.Equal(t, 1, prompts)

	c := find(t, dst, "Hips/Hat").Component(KindParentConstraint)
	require.NotNil(t, c)
	assert.Equal(t, []*tree.Node{find(t, dst, "Hips/Head")}, c.Refs[constraintSources])
	assert.Equal(t, []any{0.5}, c.Props[constraintWeights])
	assert.Equal(t, true, c.Props["active"])

	// The source keeps its weights.
	srcProps := find(t, src, "Hips/Hat").Component(KindParentConstraint).Props
	assert.Equal(t, []any{0.5, 1.0}, srcProps[constraintWeights])
}

func TestComponents_SkipSetting(t *testing.T) {
	src := build("Root", "Avatar")
	find(t, src, "Avatar").SetFacet(&tree.Component{Type: KindAnimator, Props: map[string]any{"controller": "fx"}})
	dst := build("Root", "Avatar")

	plugin := NewAnimator()
	require.True(t, plugin.CanTransfer(src, dst))

	require.NoError(t, plugin.ApplySettings(map[string]any{"skip": []any{KindAnimator}}))
	assert.False(t, plugin.CanTransfer(src, dst))

	require.ErrorContains(t, plugin.ApplySettings(map[string]any{"skip": []any{"Rigidbody"}}), "Rigidbody")
	require.Error(t, plugin.ApplySettings(map[string]any{"only": "x"}))

	require.NoError(t, plugin.ApplySettings(map[string]any{"skip": []any{}}))

	report := run(t, plugin, nil, src, dst)
	require.True(t, report.Success)
	assert.Equal(t, "fx", find(t, dst, "Avatar").Component(KindAnimator).Props["controller"])
}

func TestComponents_MissingTargetFails(t *testing.T) {
	src := build("Root", "Hips/Prop")
	find(t, src, "Hips/Prop").SetFacet(&tree.Component{Type: KindMenuItem})

	report := run(t, NewAvatarTags(), nil, src, build("Root", "Hips"))

	assert.False(t, report.Success)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Descriptor{Kind: "A"})

	require.NoError(t, r.Register(Descriptor{Kind: "B"}))
	require.Error(t, r.Register(Descriptor{Kind: "A"}))
	require.Error(t, r.Register(Descriptor{}))

	d, ok := r.Lookup("B")
	require.True(t, ok)
	assert.NotNil(t, d.Copy)
	assert.Equal(t, []string{"A", "B"}, r.Kinds())

	assert.Panics(t, func() { NewRegistry(Descriptor{Kind: "X"}, Descriptor{Kind: "X"}) })
}

func TestDefault(t *testing.T) {
	var names []string
	for _, p := range Default() {
		names = append(names, p.Name())
		assert.True(t, p.Enabled(), p.Name())
		assert.NotEmpty(t, p.Description(), p.Name())
	}

	assert.Equal(t, []string{
		"physbone", "materials", "morphs", "constraints",
		"particles", "active", "animator", "avatar-tags",
	}, names)
}
