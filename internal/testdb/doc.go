// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests obtain a connection with GetTestDBWithT, which
// skips when DATABASE_URL is unset and applies the embedded schema
// migrations, then isolate themselves with WithTx.
package testdb
