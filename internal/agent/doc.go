// Package agent orchestrates the mailbox triage loop and the prepare pass
// that turns job alerts into draft applications. It only glues collaborators
// together; classification, routing and persistence live in their own
// packages.
package agent
