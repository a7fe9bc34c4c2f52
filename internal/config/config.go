// Package config loads the rig-mapper configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"rig-mapper/internal/logging"
	"rig-mapper/internal/match"
	"rig-mapper/internal/transfer"
)

// Config is the top-level configuration file.
//
//	match:
//	  acceptance_threshold: 0.8
//	  min_candidate_score: 0.3
//	  max_candidates: 5
//	plugins: [physbone, materials]
//	settings:
//	  physbone:
//	    colliders: false
//	log_level: info
type Config struct {
	Match MatchConfig `yaml:"match"`
	// Plugins lists the enabled plugins. Nil enables every plugin.
	Plugins []string `yaml:"plugins,omitempty"`
	// Settings holds per-plugin settings keyed by plugin name.
	Settings map[string]map[string]any `yaml:"settings,omitempty"`
	LogLevel string                    `yaml:"log_level,omitempty"`
}

// MatchConfig holds the matcher thresholds.
type MatchConfig struct {
	AcceptanceThreshold float64 `yaml:"acceptance_threshold"`
	MinCandidateScore   float64 `yaml:"min_candidate_score"`
	MaxCandidates       int     `yaml:"max_candidates"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	m := match.DefaultConfig()

	return &Config{
		Match: MatchConfig{
			AcceptanceThreshold: m.AcceptanceThreshold,
			MinCandidateScore:   m.MinCandidateScore,
			MaxCandidates:       m.MaxCandidates,
		},
		LogLevel: "info",
	}
}

// Load reads a configuration file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	var errs []error

	if c.Match.AcceptanceThreshold <= 0 || c.Match.AcceptanceThreshold > 1 {
		errs = append(errs, fmt.Errorf("match.acceptance_threshold must be in (0, 1], got %v", c.Match.AcceptanceThreshold))
	}

	if c.Match.MinCandidateScore < 0 || c.Match.MinCandidateScore > 1 {
		errs = append(errs, fmt.Errorf("match.min_candidate_score must be in [0, 1], got %v", c.Match.MinCandidateScore))
	}

	if c.Match.MinCandidateScore > c.Match.AcceptanceThreshold {
		errs = append(errs, errors.New("match.min_candidate_score exceeds match.acceptance_threshold"))
	}

	if c.Match.MaxCandidates < 0 {
		errs = append(errs, fmt.Errorf("match.max_candidates must not be negative, got %d", c.Match.MaxCandidates))
	}

	for i, name := range c.Plugins {
		if name == "" {
			errs = append(errs, fmt.Errorf("plugins[%d]: empty name", i))
		} else if slices.Index(c.Plugins, name) != i {
			errs = append(errs, fmt.Errorf("plugins[%d]: duplicate %q", i, name))
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	return errors.Join(errs...)
}

// MatcherConfig returns the thresholds as a match.Config.
func (c *Config) MatcherConfig() match.Config {
	return match.Config{
		AcceptanceThreshold: c.Match.AcceptanceThreshold,
		MinCandidateScore:   c.Match.MinCandidateScore,
		MaxCandidates:       c.Match.MaxCandidates,
	}
}

// SlogLevel returns the configured log level, info when it is invalid.
func (c *Config) SlogLevel() slog.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

// ApplyPlugins enables the configured plugins and hands each plugin its
// settings. Settings for unknown plugins are an error.
func (c *Config) ApplyPlugins(exec *transfer.Executor) error {
	if err := exec.EnablePlugins(c.Plugins); err != nil {
		return fmt.Errorf("failed to enable plugins: %w", err)
	}

	var errs []error

	names := make([]string, 0, len(c.Settings))
	for name := range c.Settings {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		p := exec.Plugin(name)
		if p == nil {
			errs = append(errs, fmt.Errorf("settings for unknown plugin %q", name))
			continue
		}

		if err := p.ApplySettings(c.Settings[name]); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
