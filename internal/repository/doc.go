// Package repository aggregates the glossaries of every registered project.
// It discovers their files, answers lookups through the SQLite index and
// lists or shows glossaries for display.
package repository
