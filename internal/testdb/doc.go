// Package testdb provides helpers for integration tests that run against a
// real PostgreSQL database: locating the database from the environment,
// applying the schema with goose and isolating each test in a transaction
// that is rolled back afterwards.
//
// Everything except this file is compiled only with the integration build
// tag:
//
//	TASKHUB_TEST_DB_URL=postgres://... go test -tags=integration ./...
package testdb
