// Package transfer runs transfer plugins over a source tree and one or more
// target trees.
//
// An Executor owns the run: it clears the decision cache, resets every
// plugin, visits targets in order and enabled plugins in order, reports
// progress once per target and honors cancellation between plugin
// invocations. Plugins embed Base, which owns the per-pair resolver.
package transfer
