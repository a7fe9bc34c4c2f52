package resolve

import (
	"context"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/match"
	"rig-mapper/internal/tree"
)

// Request describes a source node that could not be resolved automatically.
type Request struct {
	Source     *tree.Node
	SourceRoot *tree.Node
	TargetRoot *tree.Node
	// SourcePath is the path of Source below SourceRoot.
	SourcePath tree.Path
	// Candidates may be empty.
	Candidates match.CandidateList
	// PlacementHint is the target of the nearest confidently matched
	// ancestor of Source, or nil.
	PlacementHint *tree.Node
}

// Prompter obtains a decision for a request, typically from a human.
//
// Prompt may block until the answer arrives; it must return when ctx is
// done. A returned error means no decision was made.
type Prompter interface {
	Prompt(ctx context.Context, req Request) (decision.Decision, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, req Request) (decision.Decision, error)

// Prompt calls f.
func (f PrompterFunc) Prompt(ctx context.Context, req Request) (decision.Decision, error) {
	return f(ctx, req)
}
