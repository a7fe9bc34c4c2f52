// Package resolve answers "what is this source node in that target tree".
//
// A Resolver combines automatic matching, decisions replayed from the
// run-wide decision cache, an interactive Prompter and on-demand creation
// of missing nodes. Its per-pair RunState tracks resolved nodes, skipped
// nodes, nodes it created itself, and whether the human stopped the run.
package resolve
