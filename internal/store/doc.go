// Package store persists users, profiles, jobs, applications, generated
// documents, processed emails and executed task history in a local SQLite
// database. The schema is embedded and applied on open, so a fresh database
// file is usable immediately.
package store
