// Package status is the read-only projection over the project store used by
// polling clients. It exposes no mutation surface.
package status
