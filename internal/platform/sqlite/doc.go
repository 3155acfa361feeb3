// Package sqlite provides an embedded SQLite implementation of
// store.TaskStore using the pure-Go modernc.org/sqlite driver. Timestamps are
// stored as fixed-width RFC 3339 UTC text so that lexical order matches
// chronological order.
package sqlite
