package glossary

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEntry is matched by DuplicateEntryError
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrAmbiguousUpdate is matched by AmbiguousUpdateError
	ErrAmbiguousUpdate = errors.New("ambiguous update")
	// ErrAmbiguousDelete is matched by AmbiguousDeleteError
	ErrAmbiguousDelete = errors.New("ambiguous delete")
	// ErrInvalidRecord is matched by InvalidRecordError
	ErrInvalidRecord = errors.New("invalid record")
)

// NotFoundError reports a missing glossary file or a missing entry
type NotFoundError struct {
	Path       string
	SourceTerm string
	TargetTerm string
}

func (e *NotFoundError) Error() string {
	switch {
	case e.SourceTerm == "":
		return fmt.Sprintf("glossary %s not found", e.Path)
	case e.TargetTerm == "":
		return fmt.Sprintf("source_term '%s' not found in %s", e.SourceTerm, e.Path)
	default:
		return fmt.Sprintf("source_term '%s' with target_term '%s' not found in %s", e.SourceTerm, e.TargetTerm, e.Path)
	}
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateEntryError reports an add or update that would not change anything
type DuplicateEntryError struct {
	Path string
	Term Term
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("term '%s: %s' already exists in %s", e.Term.SourceTerm, e.Term.TargetTerm, e.Path)
}

func (e *DuplicateEntryError) Unwrap() error { return ErrDuplicateEntry }

// AmbiguousUpdateError reports an update matching more than one entry
type AmbiguousUpdateError struct {
	Path       string
	SourceTerm string
	Matches    int
}

func (e *AmbiguousUpdateError) Error() string {
	return fmt.Sprintf("%d entries match source_term '%s' in %s", e.Matches, e.SourceTerm, e.Path)
}

func (e *AmbiguousUpdateError) Unwrap() error { return ErrAmbiguousUpdate }

// AmbiguousDeleteError reports a delete without target term matching several entries
type AmbiguousDeleteError struct {
	Path       string
	SourceTerm string
	Matches    int
}

func (e *AmbiguousDeleteError) Error() string {
	return fmt.Sprintf("%d entries match source_term '%s' in %s", e.Matches, e.SourceTerm, e.Path)
}

func (e *AmbiguousDeleteError) Unwrap() error { return ErrAmbiguousDelete }

// InvalidRecordError reports a stored record missing a required field
type InvalidRecordError struct {
	Path  string
	Index int
	Field string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("record %d in %s is missing %s", e.Index, e.Path, e.Field)
}

func (e *InvalidRecordError) Unwrap() error { return ErrInvalidRecord }
