// Package postgres provides the PostgreSQL implementation of store.TaskStore.
// It handles query execution, error-code mapping and the conversion between
// domain tasks and rows of the tasks table. Connections are opened through
// the pgx database/sql driver and managed by the caller.
package postgres
