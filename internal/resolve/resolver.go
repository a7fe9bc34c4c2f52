package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/diagnostic"
	"rig-mapper/internal/logging"
	"rig-mapper/internal/match"
	"rig-mapper/internal/tree"
)

// hintConfidence is the confidence an ancestor match needs to serve as a
// placement hint.
const hintConfidence = 0.8

var (
	// ErrNoTarget is returned when a source node has no counterpart.
	ErrNoTarget = errors.New("no target")
	// ErrSkipped is returned for nodes (and dependants of nodes) that the
	// human chose to skip.
	ErrSkipped = errors.New("node skipped")
	// ErrStopped is returned once a Stop decision has ended the run.
	ErrStopped = errors.New("transfer stopped")
	// ErrNotStarted is returned when Begin has not been called.
	ErrNotStarted = errors.New("resolver not started")
)

// Options configures a Resolver.
type Options struct {
	Matcher match.Config
	// Decisions is the run-wide decision cache. A private cache is used
	// when nil.
	Decisions *decision.Cache
	// Prompter answers unresolved nodes. Without one, such nodes have no
	// target.
	Prompter    Prompter
	Logger      *slog.Logger
	Diagnostics *diagnostic.Diagnostics
}

// Resolver maps source nodes onto one target tree at a time.
//
// A Resolver is not safe for concurrent use; the decision cache it writes
// to may be shared.
type Resolver struct {
	matcher   *match.Matcher
	decisions *decision.Cache
	prompter  Prompter
	base      *slog.Logger
	logger    *slog.Logger
	diags     *diagnostic.Diagnostics

	sourceRoot *tree.Node
	targetRoot *tree.Node
	state      *RunState
}

// New creates a Resolver. Call Begin before resolving.
func New(opts Options) *Resolver {
	r := &Resolver{
		matcher:   match.NewMatcher(opts.Matcher),
		decisions: opts.Decisions,
		prompter:  opts.Prompter,
		base:      logging.OrNop(opts.Logger),
		diags:     opts.Diagnostics,
	}

	if r.decisions == nil {
		r.decisions = decision.NewCache()
	}

	if r.diags == nil {
		r.diags = &diagnostic.Diagnostics{}
	}

	r.logger = r.base

	return r
}

// Begin starts resolving sourceRoot against targetRoot with fresh run state.
// Manual mappings from earlier pairs are forgotten; the decision cache is
// kept.
func (r *Resolver) Begin(sourceRoot, targetRoot *tree.Node) {
	r.sourceRoot = sourceRoot
	r.targetRoot = targetRoot
	r.state = newRunState()
	r.matcher.ClearManualMappings()

	if targetRoot != nil {
		r.logger = r.base.With("target", targetRoot.Name)
	}
}

// Reset clears the stop flag, the skip set and the auto-created set of the
// current pair.
func (r *Resolver) Reset() {
	if r.state != nil {
		r.state.reset()
	}
}

// State returns the run state of the current pair, or nil before Begin.
func (r *Resolver) State() *RunState {
	return r.state
}

// Stopped reports whether a Stop decision ended the run.
func (r *Resolver) Stopped() bool {
	return r.state != nil && r.state.stopped
}

// Diagnostics returns the diagnostics the resolver records into.
func (r *Resolver) Diagnostics() *diagnostic.Diagnostics {
	return r.diags
}

// Roots returns the pair passed to Begin.
func (r *Resolver) Roots() (sourceRoot, targetRoot *tree.Node) {
	return r.sourceRoot, r.targetRoot
}

// Resolve returns the counterpart of source in the current target tree, or
// nil when there is none. With createIfMissing, unresolved nodes are put to
// the Prompter and may be created.
func (r *Resolver) Resolve(ctx context.Context, source *tree.Node, createIfMissing bool) *tree.Node {
	target, _ := r.Lookup(ctx, source, createIfMissing)
	return target
}

// Lookup is Resolve with the reason for a missing target: ErrNoTarget,
// ErrSkipped, ErrStopped, ErrNotStarted or a Prompter error.
func (r *Resolver) Lookup(ctx context.Context, source *tree.Node, createIfMissing bool) (*tree.Node, error) {
	if r.state == nil || r.sourceRoot == nil || r.targetRoot == nil {
		return nil, ErrNotStarted
	}

	if source == nil {
		return nil, ErrNoTarget
	}

	return r.resolve(ctx, source, createIfMissing)
}

// Match runs the matcher for source against the current target tree,
// excluding nodes created during this run.
func (r *Resolver) Match(source *tree.Node) match.Result {
	if r.state == nil {
		return match.Result{}
	}

	return r.matcher.Match(source, r.sourceRoot, r.targetRoot, r.state.autoCreated)
}

// NearestMatchedAncestor returns the target of the closest ancestor of
// source (the source root excluded) that matches with confidence of at
// least 0.8 onto a node other than the target root.
func (r *Resolver) NearestMatchedAncestor(source *tree.Node) *tree.Node {
	if r.state == nil || source == nil {
		return nil
	}

	for current := source.Parent(); current != nil && current != r.sourceRoot; current = current.Parent() {
		res := r.Match(current)
		if res.Target != nil && res.Confidence >= hintConfidence && res.Target != r.targetRoot {
			return res.Target
		}
	}

	return nil
}

func (r *Resolver) resolve(ctx context.Context, source *tree.Node, createIfMissing bool) (*tree.Node, error) {
	st := r.state

	if st.stopped {
		return nil, ErrStopped
	}

	if st.skipped.Has(source) {
		return nil, ErrSkipped
	}

	if target, ok := st.resolved[source]; ok {
		return target, nil
	}

	if source == r.sourceRoot {
		st.resolved[source] = r.targetRoot
		return r.targetRoot, nil
	}

	result := r.Match(source)
	if result.HighConfidence {
		st.resolved[source] = result.Target
		r.logger.Debug("matched node",
			"source", source.Name, "match", result.Target.Name, "confidence", result.Confidence)

		return result.Target, nil
	}

	srcPath, _ := source.PathFrom(r.sourceRoot)
	key := srcPath.String()

	if cached, ok := r.decisions.Get(key); ok {
		target, handled, err := r.apply(ctx, source, cached)
		if handled {
			r.logger.Info("replayed decision", "source", key, "decision", cached.String())
			r.diags.AddInfo("decision_replayed", "applied earlier decision: "+cached.String(), r.targetRoot.Name, key)

			return target, err
		}

		r.logger.Warn("earlier selection missing in target, asking again",
			"source", key, "selected", cached.SelectedPath.String())
	}

	if !createIfMissing {
		return nil, ErrNoTarget
	}

	fresh, err := r.prompt(ctx, source, srcPath, result.Candidates)
	if err != nil {
		return nil, err
	}

	if fresh.Choice != decision.Stop {
		r.decisions.Put(key, fresh)
	}

	target, _, err := r.apply(ctx, source, fresh)

	return target, err
}

// prompt asks the Prompter for a decision and validates it.
func (r *Resolver) prompt(
	ctx context.Context,
	source *tree.Node,
	srcPath tree.Path,
	candidates match.CandidateList,
) (decision.Decision, error) {
	key := srcPath.String()

	if r.prompter == nil {
		r.noTarget(key, "no confident match and no prompter", candidates)
		return decision.Decision{}, ErrNoTarget
	}

	if err := ctx.Err(); err != nil {
		return decision.Decision{}, err
	}

	req := Request{
		Source:        source,
		SourceRoot:    r.sourceRoot,
		TargetRoot:    r.targetRoot,
		SourcePath:    srcPath,
		Candidates:    candidates,
		PlacementHint: r.NearestMatchedAncestor(source),
	}

	d, err := r.prompter.Prompt(ctx, req)
	if err != nil {
		r.logger.Warn("no decision", "source", key, "error", err)
		r.noTarget(key, fmt.Sprintf("no decision: %v", err), candidates)

		return decision.Decision{}, fmt.Errorf("prompt for %s: %w", key, err)
	}

	if d.Choice == decision.SelectCandidate && r.targetRoot.Find(d.SelectedPath) == nil {
		r.noTarget(key, fmt.Sprintf("selected path %q not found", d.SelectedPath.String()), candidates)
		return decision.Decision{}, ErrNoTarget
	}

	return d, nil
}

// apply carries out d for source. handled is false when a selected path
// does not exist in the current target tree.
func (r *Resolver) apply(ctx context.Context, source *tree.Node, d decision.Decision) (*tree.Node, bool, error) {
	st := r.state
	srcPath, _ := source.PathFrom(r.sourceRoot)

	switch d.Choice {
	case decision.SelectCandidate:
		target := r.targetRoot.Find(d.SelectedPath)
		if target == nil {
			return nil, false, nil
		}

		r.matcher.AddManualMapping(source, target)
		st.resolved[source] = target

		return target, true, nil

	case decision.CreateNew:
		target, err := r.create(ctx, source)
		if err != nil {
			return nil, true, err
		}

		st.resolved[source] = target

		return target, true, nil

	case decision.Skip:
		st.skipped.Add(source)
		r.logger.Info("skipped node", "source", srcPath.String())
		r.diags.AddInfo("skipped", "skipped by decision", r.targetRoot.Name, srcPath.String())

		return nil, true, ErrSkipped

	case decision.Stop:
		st.stopped = true
		r.logger.Warn("transfer stopped by decision", "source", srcPath.String())
		r.diags.AddWarning("stopped", "transfer stopped by decision", r.targetRoot.Name, srcPath.String())

		return nil, true, ErrStopped

	default:
		return nil, false, nil
	}
}

// create finds or builds the counterpart of source below the counterpart
// of its parent.
func (r *Resolver) create(ctx context.Context, source *tree.Node) (*tree.Node, error) {
	if source == r.sourceRoot {
		return r.targetRoot, nil
	}

	sourceParent := source.Parent()
	if sourceParent == nil {
		return nil, ErrNoTarget
	}

	var parent *tree.Node

	if sourceParent == r.sourceRoot {
		parent = r.targetRoot
	} else {
		found, err := r.resolve(ctx, sourceParent, false)

		switch {
		case errors.Is(err, ErrSkipped), errors.Is(err, ErrStopped):
			return nil, err
		case found != nil:
			parent = found
		default:
			created, cerr := r.create(ctx, sourceParent)
			if errors.Is(cerr, ErrSkipped) || errors.Is(cerr, ErrStopped) {
				return nil, cerr
			}

			if created != nil {
				r.state.resolved[sourceParent] = created
				parent = created
			}
		}
	}

	path, _ := source.PathFrom(r.sourceRoot)

	if parent == nil {
		r.logger.Warn("parent has no counterpart, using target root", "source", path.String())
		r.diags.AddWarning("parent_fallback", "parent unresolved, created under target root",
			r.targetRoot.Name, path.String())

		parent = r.targetRoot
	}

	if existing := parent.Child(source.Name); existing != nil {
		return existing, nil
	}

	node := tree.New(source.Name)
	node.Local = source.Local

	if err := parent.AddChild(node); err != nil {
		return nil, fmt.Errorf("failed to attach %s: %w", source.Name, err)
	}

	r.state.autoCreated.Add(node)

	created, _ := node.PathFrom(r.targetRoot)
	r.logger.Info("created node", "source", path.String(), "created", created.String())
	r.diags.AddInfo("created", "created "+created.String(), r.targetRoot.Name, path.String())

	return node, nil
}

// noTarget records a warning for a node left without a counterpart.
func (r *Resolver) noTarget(key, reason string, candidates match.CandidateList) {
	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.Path.String())
	}

	r.logger.Warn("no target", "source", key, "reason", reason)
	r.diags.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticWarning,
		Code:        "no_target",
		Message:     reason,
		Target:      r.targetRoot.Name,
		NodePath:    key,
		Suggestions: suggestions,
	})
}
