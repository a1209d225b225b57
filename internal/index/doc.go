// Package index keeps a SQLite copy of every glossary source in scope so that
// lookups do not have to parse each file on every query. Sources are re-read
// only when their modification time or size changes.
package index
