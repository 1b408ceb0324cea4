// Package triage routes classification results to a small virtual agent
// team and executes the resulting tasks.
//
// Route is a pure rule table from category to an ordered list of task
// descriptors. The Executor resolves each descriptor's agent against a
// registry built from configuration at startup, tolerates per-task failure,
// and keeps an append-only dispatch history.
package triage
