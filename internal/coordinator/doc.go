// Package coordinator owns the generation state machine. Records move from
// pending through generating into exactly one terminal status, and every
// transition is store-side compare-and-set, so retried or duplicated runs
// cannot produce a second observable outcome. Storage failures on the
// terminal write are retried a bounded number of times; after that the record
// is deliberately left in generating and flagged through logs and a gauge
// rather than guessed into failed.
package coordinator
