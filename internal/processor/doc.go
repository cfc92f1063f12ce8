// Package processor repairs one project file at a time: open it, repair every
// map's layer tree, save it back and release the handle.
//
// Each project moves through a small, forward-only state machine:
//
//	Unopened -> Opened -> Traversed -> Saved
//	Unopened -> Failed
//	Opened   -> Failed
//	Traversed -> Failed
//
// Failures are terminal for that project only. Per-layer failures are absorbed
// by the repairer and never move a project to Failed. There are no retries.
package processor
