package match

//go:generate go tool stringer -type=Compatibility -trimprefix=Compat -output=compatibility_string.go

// Compatibility is the structural relation between a source node and a
// candidate target node. Higher values are better.
type Compatibility int

const (
	// CompatUnrelated means no structural evidence links the nodes.
	CompatUnrelated Compatibility = iota
	// CompatWithinParent means the candidate lies below the target matched
	// by the source's parent, but not directly.
	CompatWithinParent
	// CompatParentMatched means the candidate is a direct child of the target
	// matched by the source's parent.
	CompatParentMatched
	// CompatPathEquivalent means both paths are equal after name normalization.
	CompatPathEquivalent
	// CompatPathIdentical means both relative paths are exactly equal.
	CompatPathIdentical
)

// Score returns the structural score in [0, 1].
func (c Compatibility) Score() float64 {
	switch c {
	case CompatPathIdentical:
		return 1.0
	case CompatPathEquivalent:
		return 0.9
	case CompatParentMatched:
		return 0.8
	case CompatWithinParent:
		return 0.5
	default:
		return 0.0
	}
}

// StructureResult contains the structural verdict for one candidate.
type StructureResult struct {
	Compatibility Compatibility
	Reason        string // Human-readable explanation
}

// combinedScore computes a combined score from name similarity and structure.
// Weights:
//   - Name similarity: 70% (0.0-0.7)
//   - Structure: 30% (0.0-0.3)
func combinedScore(nameScore float64, c Compatibility) float64 {
	const (
		nameWeight      = 0.7
		structureWeight = 0.3
	)

	score := nameScore*nameWeight + c.Score()*structureWeight

	return min(max(score, 0), 1)
}
