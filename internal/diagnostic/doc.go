// Package diagnostic collects structured warnings, errors and notes about
// how source nodes were resolved in target trees during a transfer run.
//
// Typical entries:
//   - source nodes left without a target
//   - ambiguous matches with their top candidates
//   - counterparts created in a target tree
//   - replayed human decisions
package diagnostic
