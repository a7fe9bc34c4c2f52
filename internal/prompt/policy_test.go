package prompt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/tree"
)

const policyYAML = `
rules:
  - match: "Hips/Chest"
    choice: select
    select: Hips/Thorax
  - match: "**/Tail*"
    choice: create
  - match: "Hips/*/Accessory"
    choice: skip
  - match: "Hips/Spine"
    choice: select
    select: best
default:
  choice: stop
`

func TestPolicy_FirstMatchWins(t *testing.T) {
	p, err := ParsePolicy([]byte(policyYAML))
	require.NoError(t, err)
	require.Len(t, p.Rules, 4)

	tests := []struct {
		source string
		want   decision.Decision
	}{
		{source: "Hips/Chest", want: decision.Select(tree.Path{"Hips", "Thorax"})},
		{source: "Hips/Spine/Tail", want: decision.Create()},
		{source: "Tail2", want: decision.Create()},
		{source: "Hips/Neck/Accessory", want: decision.SkipNode()},
		{source: "Hips/Spine", want: decision.Select(tree.Path{"Hips", "UpperChest"})},
		{source: "Hips/Neck/Head", want: decision.StopRun()},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			req := request()
			req.SourcePath = tree.ParsePath(tt.source)

			got, err := p.Prompt(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_NoDecision(t *testing.T) {
	p, err := ParsePolicy([]byte(`
rules:
  - match: "Hips/**"
    choice: select
`))
	require.NoError(t, err)

	req := request()
	req.SourcePath = tree.Path{"Other"}

	_, err = p.Prompt(context.Background(), req)
	require.ErrorIs(t, err, ErrNoDecision)

	req.SourcePath = tree.Path{"Hips", "Chest"}
	req.Candidates = nil

	_, err = p.Prompt(context.Background(), req)
	require.ErrorIs(t, err, ErrNoDecision)
}

func TestPolicy_Cancelled(t *testing.T) {
	p := &Policy{Default: &Rule{Choice: decision.Skip}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Prompt(ctx, request())
	require.ErrorIs(t, err, context.Canceled)
}

func TestParsePolicy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "missing match", yaml: "rules:\n  - choice: skip\n", want: "missing match"},
		{name: "bad pattern", yaml: "rules:\n  - match: \"Hips/[\"\n    choice: skip\n", want: "invalid pattern"},
		{name: "missing choice", yaml: "rules:\n  - match: Hips\n", want: "missing choice"},
		{name: "select on skip", yaml: "rules:\n  - match: Hips\n    choice: skip\n    select: Hips\n", want: "select given for skip"},
		{name: "unknown choice", yaml: "rules:\n  - match: Hips\n    choice: maybe\n", want: "unknown choice"},
		{name: "bad default", yaml: "default:\n  choice: create\n  select: Hips\n", want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(tt.yaml))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(policyYAML), 0o600))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	require.NotNil(t, p.Default)
	assert.Equal(t, decision.Stop, p.Default.Choice)

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
