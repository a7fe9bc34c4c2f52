package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rig-mapper/internal/resolve"
	"rig-mapper/internal/tree"
)

type sampleSettings struct {
	Bones     bool     `setting:"bones"`
	Limit     int      `setting:"limit"`
	Skip      []string `setting:"skip"`
	Threshold float64  `setting:"threshold"`
}

func TestDecodeSettings(t *testing.T) {
	var s sampleSettings

	err := DecodeSettings(map[string]any{
		"bones":     "true",
		"limit":     "3",
		"skip":      []any{"Tail"},
		"threshold": 0.5,
	}, &s)
	require.NoError(t, err)

	assert.Equal(t, sampleSettings{Bones: true, Limit: 3, Skip: []string{"Tail"}, Threshold: 0.5}, s)
}

func TestDecodeSettings_Errors(t *testing.T) {
	var s sampleSettings

	err := DecodeSettings(map[string]any{"colour": "red"}, &s)
	require.ErrorContains(t, err, "colour")

	err = DecodeSettings(map[string]any{"limit": "many"}, &s)
	require.Error(t, err)

	require.Error(t, DecodeSettings(nil, nil))
}

func TestBase(t *testing.T) {
	b := NewBase("demo", "does nothing")

	assert.Equal(t, "demo", b.Name())
	assert.Equal(t, "does nothing", b.Description())
	assert.True(t, b.Enabled())
	assert.Nil(t, b.Settings())
	require.NoError(t, b.ApplySettings(nil))
	require.Error(t, b.ApplySettings(map[string]any{"x": 1}))

	// Before Begin nothing resolves and nothing is stopped.
	assert.Nil(t, b.Resolve(context.Background(), tree.New("x"), true))
	_, err := b.Lookup(context.Background(), tree.New("x"), true)
	require.ErrorIs(t, err, resolve.ErrNotStarted)
	assert.False(t, b.Stopped())
	b.Reset()

	src := tree.New("Avatar")
	src.NewChild("Hips").NewChild("Chain")
	dst := tree.New("Outfit")
	dst.NewChild("Hips").NewChild("Chain")

	b.Begin(nil, src, dst)
	require.NotNil(t, b.Resolver())
	assert.NotNil(t, b.Logger())

	refs := []*tree.Node{src.Find(tree.Path{"Hips", "Chain"}), tree.New("Nowhere")}
	out, ok := b.Retarget(context.Background(), refs)
	assert.False(t, ok)
	require.Len(t, out, 1)
	assert.Same(t, dst.Find(tree.Path{"Hips", "Chain"}), out[0])
}
