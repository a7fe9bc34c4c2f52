// Package decision holds the human answers collected while resolving nodes
// and the per-run cache that replays them across target trees.
package decision
