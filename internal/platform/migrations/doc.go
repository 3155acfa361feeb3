// Package migrations embeds the SQL schema migrations for the PostgreSQL and
// SQLite task stores and applies them with goose.
package migrations
