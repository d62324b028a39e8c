// Package project persists generation requests and their lifecycle in SQLite.
//
// Every project moves through pending, generating, and exactly one of the
// terminal statuses completed or failed. Both transitions are compare-and-set
// updates keyed on the current status, which makes them safe under concurrent
// runners and retried calls: the first writer wins and later writers observe a
// conflict. Artifacts are stored as a JSON column and round-trip byte for byte.
package project
