// Package workflow owns the application lifecycle. Every application moves
// through a strict forward chain with a mandatory human approval step in the
// middle; tracking states record the employer's response after submission.
package workflow
