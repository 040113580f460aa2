// Package mocks provides testify-based mock implementations of the store
// interfaces and other collaborators, shared by the service and API tests.
//
// The package must not import any service package, so that those packages'
// internal tests can use it without an import cycle.
package mocks
