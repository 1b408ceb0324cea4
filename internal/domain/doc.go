// Package domain defines the shared data model for the job application
// agent: users, profiles, jobs, applications, generated documents and
// triaged emails, together with the closed enums (subscription plan,
// application status, job source) used across the other packages.
package domain
