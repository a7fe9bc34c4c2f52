package match

import (
	"sort"
	"testing"

	"rig-mapper/internal/tree"
)

func namedCandidates(scores ...float64) CandidateList {
	var candidates CandidateList
	for i, score := range scores {
		name := string(rune('A' + i))
		candidates = append(candidates, Candidate{
			Target:  tree.New(name),
			Path:    tree.Path{name},
			Score:   score,
			pathKey: name,
		})
	}

	return candidates
}

func TestCandidateList_Sorting(t *testing.T) {
	candidates := CandidateList{
		{Score: 0.5, pathKey: "A"},
		{Score: 0.9, pathKey: "C"},
		{Score: 0.7, pathKey: "D", siblingDelta: 1},
		{Score: 0.7, pathKey: "B", siblingDelta: 1},
		{Score: 0.7, pathKey: "E", siblingDelta: 0},
	}

	sort.Sort(candidates)

	var order []string
	for _, c := range candidates {
		order = append(order, c.pathKey)
	}

	expected := []string{"C", "E", "B", "D", "A"}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("sorted order = %v, want %v", order, expected)
		}
	}
}

func TestCandidateList_Top(t *testing.T) {
	candidates := namedCandidates(0.9, 0.8, 0.7)

	if top2 := candidates.Top(2); len(top2) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(top2))
	}

	// Request more than available
	if top10 := candidates.Top(10); len(top10) != 3 {
		t.Errorf("Expected 3 candidates (all), got %d", len(top10))
	}
}

func TestCandidateList_Best(t *testing.T) {
	if CandidateList(nil).Best() != nil {
		t.Error("Expected nil best for empty list")
	}

	best := namedCandidates(0.9, 0.4).Best()
	if best == nil || best.Target.Name != "A" {
		t.Errorf("Expected best candidate A, got %+v", best)
	}
}

func TestCandidateList_IsAmbiguous(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		threshold float64
		expected  bool
	}{
		{
			name:      "clear winner",
			scores:    []float64{0.9, 0.5},
			threshold: 0.1,
			expected:  false,
		},
		{
			name:      "ambiguous",
			scores:    []float64{0.59, 0.55},
			threshold: 0.1,
			expected:  true,
		},
		{
			name:      "single candidate",
			scores:    []float64{0.9},
			threshold: 0.1,
			expected:  false,
		},
		{
			name:      "no candidates",
			scores:    []float64{},
			threshold: 0.1,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := namedCandidates(tt.scores...)
			if got := candidates.IsAmbiguous(tt.threshold); got != tt.expected {
				t.Errorf("IsAmbiguous() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCandidateList_AboveThreshold(t *testing.T) {
	candidates := namedCandidates(0.9, 0.7, 0.5, 0.3)

	above := candidates.AboveThreshold(0.6)
	if len(above) != 2 {
		t.Errorf("Expected 2 candidates above 0.6, got %d", len(above))
	}
}

func TestCandidateList_NodesAndContains(t *testing.T) {
	candidates := namedCandidates(0.9, 0.7)
	nodes := candidates.Nodes()

	if len(nodes) != 2 || nodes[0].Name != "A" || nodes[1].Name != "B" {
		t.Errorf("Nodes() = %v, want [A B]", nodes)
	}

	if !candidates.Contains(nodes[1]) {
		t.Error("Contains() = false for a listed node")
	}

	if candidates.Contains(tree.New("A")) {
		t.Error("Contains() must compare identity, not names")
	}
}

func TestCombinedScore(t *testing.T) {
	tests := []struct {
		nameScore float64
		compat    Compatibility
		minScore  float64
		maxScore  float64
	}{
		// Perfect match
		{1.0, CompatPathIdentical, 0.99, 1.01},
		// Perfect name under the matched parent
		{1.0, CompatParentMatched, 0.93, 0.95},
		// Perfect name, nothing structural
		{1.0, CompatUnrelated, 0.69, 0.71},
		// No name match, identical path cannot happen but still scores
		{0.0, CompatPathIdentical, 0.29, 0.31},
		// No match at all
		{0.0, CompatUnrelated, -0.01, 0.01},
	}

	for i, tt := range tests {
		score := combinedScore(tt.nameScore, tt.compat)
		if score < tt.minScore || score > tt.maxScore {
			t.Errorf("Test %d: combinedScore(%f, %v) = %f, want in [%f, %f]",
				i, tt.nameScore, tt.compat, score, tt.minScore, tt.maxScore)
		}
	}
}

func TestCompatibility_String(t *testing.T) {
	if got := CompatParentMatched.String(); got != "ParentMatched" {
		t.Errorf("String() = %q", got)
	}

	if got := Compatibility(42).String(); got != "Compatibility(42)" {
		t.Errorf("String() = %q", got)
	}
}
