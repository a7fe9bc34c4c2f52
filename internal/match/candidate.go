package match

import (
	"rig-mapper/internal/tree"
)

// Candidate represents a potential mapping from a source node to a target node.
type Candidate struct {
	Target *tree.Node
	// Path is the candidate's path relative to the target root.
	Path tree.Path

	// Scoring components
	NameScore float64         // Name similarity (0-1)
	Structure StructureResult // Structural relation to the source

	// Combined score for ranking (higher is better)
	Score float64

	// Tie-breakers: distance in sibling order and in depth from the source.
	siblingDelta int
	depthDelta   int
	pathKey      string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by sibling-order distance, depth distance
// and finally target path for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	if c[i].siblingDelta != c[j].siblingDelta {
		return c[i].siblingDelta < c[j].siblingDelta
	}

	if c[i].depthDelta != c[j].depthDelta {
		return c[i].depthDelta < c[j].depthDelta
	}

	return c[i].pathKey < c[j].pathKey
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < threshold
}

// AboveThreshold returns candidates with score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Nodes returns the candidate target nodes in rank order.
func (c CandidateList) Nodes() []*tree.Node {
	out := make([]*tree.Node, 0, len(c))
	for _, cand := range c {
		out = append(out, cand.Target)
	}

	return out
}

// Contains reports whether n is one of the candidates.
func (c CandidateList) Contains(n *tree.Node) bool {
	for _, cand := range c {
		if cand.Target == n {
			return true
		}
	}

	return false
}
