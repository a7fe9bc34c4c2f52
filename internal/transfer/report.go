package transfer

import (
	"rig-mapper/internal/diagnostic"
)

//go:generate go tool stringer -type=Outcome -trimprefix=Outcome -output=outcome_string.go

// Outcome classifies how a run ended.
type Outcome int

const (
	// OutcomeNothingToDo: no source or no target was given.
	OutcomeNothingToDo Outcome = iota
	// OutcomeCompleted: every invocation succeeded.
	OutcomeCompleted
	// OutcomeFailed: the run finished but some invocation failed.
	OutcomeFailed
	// OutcomeStopped: a Stop decision ended the run.
	OutcomeStopped
	// OutcomeCancelled: the context was cancelled.
	OutcomeCancelled
)

// PairResult is the result of one plugin invocation on one target.
type PairResult struct {
	Target  string
	Plugin  string
	Success bool
	// Err is set when the plugin panicked.
	Err error
}

// Report summarizes a run.
type Report struct {
	RunID       string
	Outcome     Outcome
	Success     bool
	Pairs       []PairResult
	Diagnostics diagnostic.Diagnostics
}

// Failed returns the invocations that did not succeed.
func (r *Report) Failed() []PairResult {
	var out []PairResult

	for _, p := range r.Pairs {
		if !p.Success {
			out = append(out, p)
		}
	}

	return out
}
