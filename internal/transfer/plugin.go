package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/diagnostic"
	"rig-mapper/internal/logging"
	"rig-mapper/internal/match"
	"rig-mapper/internal/resolve"
	"rig-mapper/internal/tree"
)

// Setting describes one plugin setting.
type Setting struct {
	Key         string
	Description string
	Value       any
}

// Plugin copies one kind of per-node state from a source tree to a target
// tree.
type Plugin interface {
	Name() string
	Description() string
	Enabled() bool
	SetEnabled(enabled bool)
	// CanTransfer is a cheap predicate: does sourceRoot hold anything this
	// plugin acts on.
	CanTransfer(sourceRoot, targetRoot *tree.Node) bool
	// ExecuteTransfer performs the transfer and reports whether it completed
	// without unrecoverable errors. Partial work is expected on false.
	ExecuteTransfer(ctx context.Context, env *Env, sourceRoot, targetRoot *tree.Node) bool
	// Settings returns the current settings.
	Settings() []Setting
	// ApplySettings updates settings from loosely typed values.
	ApplySettings(values map[string]any) error
	// Stopped reports whether a Stop decision ended the run.
	Stopped() bool
	// Reset clears run-scoped state, including the stop flag.
	Reset()
}

// Env carries the run-owned collaborators into a plugin invocation.
type Env struct {
	RunID       string
	Decisions   *decision.Cache
	Prompter    resolve.Prompter
	Logger      *slog.Logger
	Match       match.Config
	Diagnostics *diagnostic.Diagnostics
}

// Base implements the shared half of Plugin. Concrete plugins embed it and
// call Begin at the start of ExecuteTransfer.
type Base struct {
	name        string
	description string
	enabled     bool

	resolver *resolve.Resolver
	logger   *slog.Logger
}

// NewBase creates an enabled Base.
func NewBase(name, description string) Base {
	return Base{
		name:        name,
		description: description,
		enabled:     true,
		logger:      logging.NewNop(),
	}
}

func (b *Base) Name() string        { return b.name }
func (b *Base) Description() string { return b.description }
func (b *Base) Enabled() bool       { return b.enabled }

func (b *Base) SetEnabled(enabled bool) { b.enabled = enabled }

// Begin installs a resolver for the (sourceRoot, targetRoot) pair, wired to
// the run's decision cache, prompter and diagnostics.
func (b *Base) Begin(env *Env, sourceRoot, targetRoot *tree.Node) {
	if env == nil {
		env = &Env{Match: match.DefaultConfig()}
	}

	b.logger = logging.OrNop(env.Logger).With("plugin", b.name)
	b.resolver = resolve.New(resolve.Options{
		Matcher:     env.Match,
		Decisions:   env.Decisions,
		Prompter:    env.Prompter,
		Logger:      b.logger,
		Diagnostics: env.Diagnostics,
	})
	b.resolver.Begin(sourceRoot, targetRoot)
}

// Resolver returns the resolver of the current pair, or nil before Begin.
func (b *Base) Resolver() *resolve.Resolver {
	return b.resolver
}

// Logger returns the plugin logger of the current invocation.
func (b *Base) Logger() *slog.Logger {
	return b.logger
}

// Resolve returns the target counterpart of source, creating it when
// createIfMissing is set and the human agrees.
func (b *Base) Resolve(ctx context.Context, source *tree.Node, createIfMissing bool) *tree.Node {
	if b.resolver == nil {
		return nil
	}

	return b.resolver.Resolve(ctx, source, createIfMissing)
}

// Lookup is Resolve with the reason for a missing target.
func (b *Base) Lookup(ctx context.Context, source *tree.Node, createIfMissing bool) (*tree.Node, error) {
	if b.resolver == nil {
		return nil, resolve.ErrNotStarted
	}

	return b.resolver.Lookup(ctx, source, createIfMissing)
}

// Retarget maps node references of a source tree onto the target tree.
// References that cannot be resolved are dropped; ok is false if any was.
func (b *Base) Retarget(ctx context.Context, refs []*tree.Node) (out []*tree.Node, ok bool) {
	ok = true

	for _, ref := range refs {
		target := b.Resolve(ctx, ref, true)
		if target == nil {
			ok = false
			continue
		}

		out = append(out, target)
	}

	return out, ok
}

// Stopped reports whether the current pair was stopped by a decision.
func (b *Base) Stopped() bool {
	return b.resolver != nil && b.resolver.Stopped()
}

// Reset clears the stop flag and the per-pair skip and auto-created sets.
func (b *Base) Reset() {
	if b.resolver != nil {
		b.resolver.Reset()
	}
}

// Settings returns no settings.
func (b *Base) Settings() []Setting {
	return nil
}

// ApplySettings rejects every value; plugins with settings override it.
func (b *Base) ApplySettings(values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	return fmt.Errorf("plugin %s has no settings", b.name)
}

// DecodeSettings decodes loosely typed values into the struct pointed to by
// out, using "setting" field tags. Unknown keys are an error.
func DecodeSettings(values map[string]any, out any) error {
	if out == nil {
		return errors.New("nil settings target")
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "setting",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create settings decoder: %w", err)
	}

	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}

	return nil
}
