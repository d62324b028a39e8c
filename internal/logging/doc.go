// Package logging provides slog construction and shared structured-logging
// conventions. Two handler formats are supported: a human-oriented console
// format and machine-readable JSON. Field name constants keep attribute keys
// consistent across components, and context helpers carry correlation fields
// from request handling through background generation.
package logging
