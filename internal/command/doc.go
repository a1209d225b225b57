// Package command implements the user level operations of loga. Every
// operation reports problems the user can fix as a message on the output
// writer; only unexpected I/O failures are returned as errors.
package command
