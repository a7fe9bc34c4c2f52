package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rig-mapper/internal/match"
	"rig-mapper/internal/plugins"
	"rig-mapper/internal/transfer"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, match.DefaultConfig(), cfg.MatcherConfig())
	assert.Nil(t, cfg.Plugins)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
match:
  acceptance_threshold: 0.9
  max_candidates: 3
plugins: [physbone, materials]
settings:
  physbone:
    colliders: false
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, match.Config{
		AcceptanceThreshold: 0.9,
		MinCandidateScore:   match.DefaultMinCandidateScore,
		MaxCandidates:       3,
	}, cfg.MatcherConfig())
	assert.Equal(t, []string{"physbone", "materials"}, cfg.Plugins)
	assert.Equal(t, false, cfg.Settings["physbone"]["colliders"])
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{
			name:   "threshold out of range",
			mutate: func(c *Config) { c.Match.AcceptanceThreshold = 1.5 },
			want:   []string{"acceptance_threshold"},
		},
		{
			name:   "min above acceptance",
			mutate: func(c *Config) { c.Match.MinCandidateScore = 0.95; c.Match.AcceptanceThreshold = 0.9 },
			want:   []string{"exceeds"},
		},
		{
			name:   "negative max candidates",
			mutate: func(c *Config) { c.Match.MaxCandidates = -1 },
			want:   []string{"max_candidates"},
		},
		{
			name:   "plugin names",
			mutate: func(c *Config) { c.Plugins = []string{"a", "", "a"} },
			want:   []string{"plugins[1]: empty name", `plugins[2]: duplicate "a"`},
		},
		{
			name:   "log level",
			mutate: func(c *Config) { c.LogLevel = "loud" },
			want:   []string{"log_level"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			for _, want := range tt.want {
				assert.ErrorContains(t, err, want)
			}
		})
	}

	require.NoError(t, DefaultConfig().Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rig-mapper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("match: [\n"), 0o600))

	_, err = Load(bad)
	require.ErrorContains(t, err, "bad.yaml")
}

func TestApplyPlugins(t *testing.T) {
	exec := transfer.NewExecutor(plugins.Default())

	cfg := DefaultConfig()
	cfg.Plugins = []string{"physbone", "constraints"}
	cfg.Settings = map[string]map[string]any{
		"physbone":    {"colliders": "false"},
		"constraints": {"skip": []any{plugins.KindAimConstraint}},
	}

	require.NoError(t, cfg.ApplyPlugins(exec))

	for _, p := range exec.Plugins() {
		assert.Equal(t, p.Name() == "physbone" || p.Name() == "constraints", p.Enabled(), p.Name())
	}

	for _, s := range exec.Plugin("physbone").Settings() {
		if s.Key == "colliders" {
			assert.Equal(t, false, s.Value)
		}
	}
}

func TestApplyPlugins_Errors(t *testing.T) {
	exec := transfer.NewExecutor(plugins.Default())

	cfg := DefaultConfig()
	cfg.Plugins = []string{"nope"}
	require.ErrorContains(t, cfg.ApplyPlugins(exec), "nope")

	cfg.Plugins = nil
	cfg.Settings = map[string]map[string]any{
		"ghost":    {"x": 1},
		"physbone": {"gravity": 1},
		"active":   {"x": 1},
	}

	err := cfg.ApplyPlugins(exec)
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown plugin "ghost"`)
	assert.ErrorContains(t, err, "physbone")
	assert.ErrorContains(t, err, "active")
}
