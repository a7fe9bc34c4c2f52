package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/google/uuid"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/logging"
	"rig-mapper/internal/match"
	"rig-mapper/internal/resolve"
	"rig-mapper/internal/tree"
)

// Executor runs plugins over (source, target) pairs.
//
// Runs are sequential: plugins share the decision cache and a Prompter
// handles one request at a time.
type Executor struct {
	plugins   []Plugin
	decisions *decision.Cache
	prompter  resolve.Prompter
	logger    *slog.Logger
	match     match.Config
}

// Option configures an Executor.
type Option func(*Executor)

// WithPrompter sets the Prompter consulted for unresolved nodes.
func WithPrompter(p resolve.Prompter) Option {
	return func(e *Executor) { e.prompter = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = logging.OrNop(l) }
}

// WithMatchConfig sets the matcher thresholds.
func WithMatchConfig(c match.Config) Option {
	return func(e *Executor) { e.match = c }
}

// WithDecisionCache shares an existing decision cache. It is still cleared
// at the start of every run.
func WithDecisionCache(c *decision.Cache) Option {
	return func(e *Executor) {
		if c != nil {
			e.decisions = c
		}
	}
}

// NewExecutor creates an Executor running plugins in the given order.
func NewExecutor(plugins []Plugin, opts ...Option) *Executor {
	e := &Executor{
		plugins:   slices.Clone(plugins),
		decisions: decision.NewCache(),
		logger:    logging.NewNop(),
		match:     match.DefaultConfig(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Plugins returns the plugins in execution order.
func (e *Executor) Plugins() []Plugin {
	return slices.Clone(e.plugins)
}

// Plugin returns the plugin with the given name, or nil.
func (e *Executor) Plugin(name string) Plugin {
	for _, p := range e.plugins {
		if p.Name() == name {
			return p
		}
	}

	return nil
}

// Decisions returns the run-wide decision cache.
func (e *Executor) Decisions() *decision.Cache {
	return e.decisions
}

// EnablePlugins enables exactly the named plugins and disables the rest.
// A nil slice leaves the current flags unchanged. Unknown names are an
// error and change nothing.
func (e *Executor) EnablePlugins(names []string) error {
	if names == nil {
		return nil
	}

	var unknown []string

	for _, name := range names {
		if e.Plugin(name) == nil {
			unknown = append(unknown, name)
		}
	}

	if len(unknown) > 0 {
		return fmt.Errorf("unknown plugins: %s", strings.Join(unknown, ", "))
	}

	for _, p := range e.plugins {
		p.SetEnabled(slices.Contains(names, p.Name()))
	}

	return nil
}

// Execute runs the transfer and reports whether every invocation succeeded.
func (e *Executor) Execute(ctx context.Context, sourceRoot *tree.Node, targetRoots []*tree.Node, onProgress ProgressFunc) bool {
	report := e.Run(ctx, sourceRoot, targetRoots, onProgress)
	return report.Success
}

// Run runs the transfer and returns a full report. It never panics because
// of a plugin.
func (e *Executor) Run(ctx context.Context, sourceRoot *tree.Node, targetRoots []*tree.Node, onProgress ProgressFunc) Report {
	report := Report{RunID: uuid.NewString()}
	logger := e.logger.With("run", report.RunID)

	var targets []*tree.Node

	for _, t := range targetRoots {
		if t != nil {
			targets = append(targets, t)
		}
	}

	if sourceRoot == nil || len(targets) == 0 {
		logger.Warn("nothing to transfer", "source", sourceRoot != nil, "targets", len(targets))
		report.Outcome = OutcomeNothingToDo

		return report
	}

	e.decisions.Clear()

	for _, p := range e.plugins {
		p.Reset()
	}

	var enabled []Plugin

	for _, p := range e.plugins {
		if p.Enabled() {
			enabled = append(enabled, p)
		}
	}

	env := &Env{
		RunID:       report.RunID,
		Decisions:   e.decisions,
		Prompter:    e.prompter,
		Logger:      logger,
		Match:       e.match,
		Diagnostics: &report.Diagnostics,
	}

	total := len(targets)
	success := true

	logger.Info("transfer started", "source", sourceRoot.Name, "targets", total, "plugins", len(enabled))

	for i, target := range targets {
		step := i + 1
		emit(onProgress, Progress{
			Progress:       float64(step) / float64(total),
			Message:        "transferring to " + target.Name,
			CurrentTarget:  target.Name,
			ProcessedSteps: step,
			TotalSteps:     total,
		})
		runtime.Gosched()

		for _, p := range enabled {
			if err := ctx.Err(); err != nil {
				logger.Warn("transfer cancelled", "target", target.Name, "plugin", p.Name(), "error", err)
				report.Outcome = OutcomeCancelled

				return report
			}

			if !p.CanTransfer(sourceRoot, target) {
				logger.Debug("nothing to transfer for plugin", "target", target.Name, "plugin", p.Name())
				continue
			}

			ok, err := e.invoke(ctx, env, p, sourceRoot, target)
			if err != nil {
				logger.Error("plugin failed", "target", target.Name, "plugin", p.Name(), "error", err)
				report.Diagnostics.AddError("plugin_panic", err.Error(), target.Name, "")
			}

			report.Pairs = append(report.Pairs, PairResult{
				Target:  target.Name,
				Plugin:  p.Name(),
				Success: ok,
				Err:     err,
			})

			if !ok {
				success = false
			}

			if p.Stopped() {
				logger.Warn("transfer stopped by user", "target", target.Name, "plugin", p.Name())
				report.Outcome = OutcomeStopped

				return report
			}
		}
	}

	emit(onProgress, Progress{
		Progress:       1,
		Message:        "transfer complete",
		ProcessedSteps: total,
		TotalSteps:     total,
	})

	report.Success = success
	report.Outcome = OutcomeCompleted

	if !success {
		report.Outcome = OutcomeFailed
	}

	logger.Info("transfer finished", "outcome", report.Outcome.String(), "decisions", e.decisions.Len())

	return report
}

// invoke runs one plugin, turning a panic into an error.
func (e *Executor) invoke(
	ctx context.Context,
	env *Env,
	p Plugin,
	sourceRoot, targetRoot *tree.Node,
) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("plugin %s panicked: %v", p.Name(), r)
		}
	}()

	return p.ExecuteTransfer(ctx, env, sourceRoot, targetRoot), nil
}

func emit(fn ProgressFunc, p Progress) {
	if fn != nil {
		fn(p)
	}
}
