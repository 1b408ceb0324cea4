// Package cmd implements the command-line interface for jobagent.
//
// This package provides the following commands:
//   - run: Fetch, classify and file job-search mail (the default command)
//   - prepare: Turn stored job alerts into draft applications
//   - applications: Inspect applications and advance them through approval
//   - profile: Manage the CV profile used for fit scoring
//   - jobs: Manage job postings
//   - users: Manage user accounts and plans
//   - auth: Run the Google OAuth flow
//   - version: Display version information
package cmd
