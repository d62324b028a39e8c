// Package daemon composes the project store, the generation coordinator, and
// the HTTP API into a single lifecycle with flock-based locking to prevent
// multiple concurrent instances.
package daemon
