// Package api handles incoming HTTP requests: request decoding and
// validation, and writing service envelopes as JSON responses with the
// matching status code. It adapts HTTP to the auth and task services.
package api
