package prompt

import "errors"

// ErrNoDecision is returned when a prompter cannot produce a decision.
var ErrNoDecision = errors.New("no decision")
