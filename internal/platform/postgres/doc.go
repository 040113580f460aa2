// Package postgres provides PostgreSQL implementations of the store
// interfaces: the credential store (users and roles) and the task store.
// It uses database/sql with the pgx driver and maps PostgreSQL error codes
// onto the store package's sentinel errors.
package postgres
