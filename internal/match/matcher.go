package match

import (
	"fmt"
	"sort"

	"rig-mapper/internal/tree"
)

// Confidence thresholds for accepting matches.
const (
	// DefaultAcceptanceThreshold is the confidence a match must exceed to be
	// accepted without a human decision.
	DefaultAcceptanceThreshold = 0.8
	// DefaultMinCandidateScore is the minimum score for a node to be offered
	// as a candidate.
	DefaultMinCandidateScore = 0.3
	// DefaultMaxCandidates caps the candidate list handed to a prompter.
	DefaultMaxCandidates = 5
)

// Config holds the matcher thresholds.
type Config struct {
	// AcceptanceThreshold: confidence above it is high confidence.
	AcceptanceThreshold float64
	// MinCandidateScore filters weak candidates out of the list.
	MinCandidateScore float64
	// MaxCandidates is the maximum number of candidates kept (0 = unlimited).
	MaxCandidates int
}

// DefaultConfig returns the default matcher configuration.
func DefaultConfig() Config {
	return Config{
		AcceptanceThreshold: DefaultAcceptanceThreshold,
		MinCandidateScore:   DefaultMinCandidateScore,
		MaxCandidates:       DefaultMaxCandidates,
	}
}

// Result is the outcome of matching one source node against one target tree.
type Result struct {
	// Target is the top-ranked node; authoritative only when HighConfidence.
	Target     *tree.Node
	Candidates CandidateList
	Confidence float64
	// HighConfidence is true iff Confidence exceeds the acceptance threshold.
	HighConfidence bool
}

// Matcher ranks target nodes for source nodes.
//
// Apart from manual overrides, which callers record explicitly, a Matcher
// holds no state between calls: identical inputs yield identical results.
type Matcher struct {
	config Config
	manual map[*tree.Node]*tree.Node
}

// NewMatcher creates a Matcher.
func NewMatcher(config Config) *Matcher {
	return &Matcher{
		config: config,
		manual: make(map[*tree.Node]*tree.Node),
	}
}

// Config returns the matcher configuration.
func (m *Matcher) Config() Config {
	return m.config
}

// AddManualMapping pins source to target for subsequent matches.
func (m *Matcher) AddManualMapping(source, target *tree.Node) {
	m.manual[source] = target
}

// ClearManualMappings forgets every pinned mapping.
func (m *Matcher) ClearManualMappings() {
	clear(m.manual)
}

// Match ranks the nodes of the tree under targetRoot as counterparts of
// source, which should belong to the tree under sourceRoot. Nodes in
// excluded never appear in the result. Match has no side effects.
func (m *Matcher) Match(source, sourceRoot, targetRoot *tree.Node, excluded tree.Set) Result {
	if source == nil || targetRoot == nil {
		return Result{}
	}

	s := newScope(m, sourceRoot, targetRoot, excluded)

	return s.match(source)
}

// scope carries the per-call indexes of one Match invocation.
type scope struct {
	m          *Matcher
	sourceRoot *tree.Node
	targetRoot *tree.Node
	excluded   tree.Set

	targets   []*tree.Node
	paths     map[*tree.Node]tree.Path
	normPaths map[*tree.Node]string
	memo      map[*tree.Node]Result
}

func newScope(m *Matcher, sourceRoot, targetRoot *tree.Node, excluded tree.Set) *scope {
	s := &scope{
		m:          m,
		sourceRoot: sourceRoot,
		targetRoot: targetRoot,
		excluded:   excluded,
		paths:      make(map[*tree.Node]tree.Path),
		normPaths:  make(map[*tree.Node]string),
		memo:       make(map[*tree.Node]Result),
	}

	targetRoot.Walk(func(n *tree.Node) bool {
		if n == targetRoot || excluded.Has(n) {
			return true
		}

		p, _ := n.PathFrom(targetRoot)
		s.targets = append(s.targets, n)
		s.paths[n] = p
		s.normPaths[n] = normalizePath(p)

		return true
	})

	return s
}

func (s *scope) match(source *tree.Node) Result {
	if source == s.sourceRoot {
		return Result{Target: s.targetRoot, Confidence: 1, HighConfidence: true}
	}

	if cached, ok := s.memo[source]; ok {
		return cached
	}

	result := s.rank(source)
	s.memo[source] = result

	return result
}

func (s *scope) rank(source *tree.Node) Result {
	if target, ok := s.m.manual[source]; ok && target != nil && !s.excluded.Has(target) {
		p, _ := target.PathFrom(s.targetRoot)
		cand := Candidate{
			Target:    target,
			Path:      p,
			NameScore: NameScore(source.Name, target.Name),
			Structure: StructureResult{Compatibility: CompatPathIdentical, Reason: "manual mapping"},
			Score:     1,
			pathKey:   p.String(),
		}

		return Result{Target: target, Candidates: CandidateList{cand}, Confidence: 1, HighConfidence: true}
	}

	srcPath, inTree := source.PathFrom(s.sourceRoot)
	srcNorm := normalizePath(srcPath)

	// The parent's own confident match anchors the structural signal.
	var parentTarget *tree.Node

	if inTree {
		if pr := s.match(source.Parent()); pr.HighConfidence {
			parentTarget = pr.Target
		}
	}

	var candidates CandidateList

	for _, t := range s.targets {
		nameScore := NameScore(source.Name, t.Name)
		structure := s.structure(srcPath, srcNorm, inTree, t, parentTarget)

		score := combinedScore(nameScore, structure.Compatibility)
		if score < s.m.config.MinCandidateScore {
			continue
		}

		p := s.paths[t]
		candidates = append(candidates, Candidate{
			Target:       t,
			Path:         p,
			NameScore:    nameScore,
			Structure:    structure,
			Score:        score,
			siblingDelta: absInt(source.SiblingIndex() - t.SiblingIndex()),
			depthDelta:   absInt(len(srcPath) - len(p)),
			pathKey:      p.String(),
		})
	}

	sort.Sort(candidates)

	if s.m.config.MaxCandidates > 0 {
		candidates = candidates.Top(s.m.config.MaxCandidates)
	}

	best := candidates.Best()
	if best == nil {
		return Result{}
	}

	return Result{
		Target:         best.Target,
		Candidates:     candidates,
		Confidence:     best.Score,
		HighConfidence: best.Score > s.m.config.AcceptanceThreshold,
	}
}

// structure determines the structural relation of a candidate to the source.
func (s *scope) structure(
	srcPath tree.Path,
	srcNorm string,
	inTree bool,
	candidate *tree.Node,
	parentTarget *tree.Node,
) StructureResult {
	if !inTree {
		return StructureResult{Compatibility: CompatUnrelated, Reason: "source outside source tree"}
	}

	candPath := s.paths[candidate]

	switch {
	case candPath.Equal(srcPath):
		return StructureResult{Compatibility: CompatPathIdentical, Reason: "identical path"}
	case s.normPaths[candidate] == srcNorm:
		return StructureResult{Compatibility: CompatPathEquivalent, Reason: "equivalent path after normalization"}
	case parentTarget != nil && candidate.Parent() == parentTarget:
		return StructureResult{
			Compatibility: CompatParentMatched,
			Reason:        fmt.Sprintf("child of parent match %q", parentTarget.Name),
		}
	case parentTarget != nil && parentTarget != s.targetRoot && candidate.IsDescendantOf(parentTarget):
		return StructureResult{
			Compatibility: CompatWithinParent,
			Reason:        fmt.Sprintf("below parent match %q", parentTarget.Name),
		}
	default:
		return StructureResult{Compatibility: CompatUnrelated, Reason: "no structural relation"}
	}
}

// normalizePath joins the normalized segments of p.
func normalizePath(p tree.Path) string {
	segments := make(tree.Path, len(p))
	for i, name := range p {
		segments[i] = NormalizeName(name)
	}

	return segments.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
