// Package history keeps a SQLite record of completed builds so operators can
// see when the site was last generated and how each run went.
//
// The database is disposable: the schema is created on first open and a
// version mismatch is reported rather than migrated.
package history
