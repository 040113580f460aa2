// Package service contains the task use cases: the lifecycle manager that
// creates, updates and soft-deletes tasks, and the query engine that
// filters, sorts and pages them.
//
// Every operation returns an envelope.Response instead of a Go error.
// Expected failures (not found, persistence failure) are encoded as failure
// codes so that the delivery layer can pick a status without inspecting
// error chains. Store errors never escape this package unwrapped.
//
// Services receive their dependencies through constructor injection and
// depend only on the store interfaces, never on a concrete database.
package service
