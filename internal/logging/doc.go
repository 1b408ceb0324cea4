// Package logging provides slog helpers: shared attribute keys so log
// output stays greppable across packages, an error attribute that tolerates
// nil, and sender anonymization for PII-safe correlation.
package logging
