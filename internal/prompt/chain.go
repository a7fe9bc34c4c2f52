package prompt

import (
	"context"
	"errors"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/resolve"
)

// Chain asks each prompter in turn and moves on only when one fails with
// ErrNoDecision. Nil prompters are ignored.
type Chain []resolve.Prompter

// Prompt implements resolve.Prompter.
func (c Chain) Prompt(ctx context.Context, req resolve.Request) (decision.Decision, error) {
	for _, p := range c {
		if p == nil {
			continue
		}

		d, err := p.Prompt(ctx, req)
		if errors.Is(err, ErrNoDecision) {
			continue
		}

		return d, err
	}

	return decision.Decision{}, ErrNoDecision
}
