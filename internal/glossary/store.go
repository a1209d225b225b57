package glossary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/loga/internal"
)

// record mirrors Term with pointer fields so that missing keys can be told
// apart from empty values while decoding
type record struct {
	SourceTerm *string `yaml:"source_term"`
	TargetTerm *string `yaml:"target_term"`
	Note       *string `yaml:"note"`
}

// Store reads and writes native glossary files
type Store struct{}

// NewStore creates a new term store
func NewStore() *Store {
	return &Store{}
}

// Exists reports whether the glossary file at path exists
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load returns the terms stored at path in file order
func (s *Store) Load(path string) ([]Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read glossary: %w", err)
	}

	return decodeTerms(path, data)
}

func decodeTerms(path string, data []byte) ([]Term, error) {
	var records []record

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse glossary %s: %w", path, err)
	}

	terms := make([]Term, 0, len(records))
	for i, r := range records {
		if r.SourceTerm == nil {
			return nil, &InvalidRecordError{Path: path, Index: i, Field: "source_term"}
		}
		if r.TargetTerm == nil {
			return nil, &InvalidRecordError{Path: path, Index: i, Field: "target_term"}
		}

		term := Term{SourceTerm: *r.SourceTerm, TargetTerm: *r.TargetTerm}
		if r.Note != nil {
			term.Note = *r.Note
		}
		terms = append(terms, term)
	}

	return terms, nil
}

// Save replaces the glossary at path with terms
func (s *Store) Save(path string, terms []Term) error {
	if terms == nil {
		terms = []Term{}
	}

	data, err := yaml.Marshal(terms)
	if err != nil {
		return fmt.Errorf("failed to encode glossary: %w", err)
	}

	if err := internal.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save glossary: %w", err)
	}

	log.Debug().Str("path", path).Int("terms", len(terms)).Msg("glossary saved")
	return nil
}

// loadOrEmpty is Load that treats a missing file as an empty glossary
func (s *Store) loadOrEmpty(path string) ([]Term, error) {
	terms, err := s.Load(path)
	if errors.Is(err, ErrNotFound) {
		return []Term{}, nil
	}
	return terms, err
}

// Append adds a term, creating the glossary on first use. An existing pair
// with a different note gets its note replaced instead of a second entry.
func (s *Store) Append(path string, term Term) error {
	terms, err := s.loadOrEmpty(path)
	if err != nil {
		return err
	}

	term = NewTerm(term.SourceTerm, term.TargetTerm, term.Note)

	for i, existing := range terms {
		if !existing.SamePair(term) {
			continue
		}
		if existing.Note == term.Note {
			return &DuplicateEntryError{Path: path, Term: term}
		}
		terms[i].Note = term.Note
		return s.Save(path, terms)
	}

	return s.Save(path, append(terms, term))
}

// Update replaces the target term of the entry (source, oldTarget). A nil
// note keeps the stored note.
func (s *Store) Update(path, source, oldTarget, newTarget string, note *string) error {
	terms, err := s.Load(path)
	if err != nil {
		return err
	}

	source, oldTarget, newTarget = Normalize(source), Normalize(oldTarget), Normalize(newTarget)

	index := -1
	matches := 0
	for i, t := range terms {
		if t.SourceTerm == source && t.TargetTerm == oldTarget {
			index = i
			matches++
		}
	}

	switch {
	case matches == 0:
		return &NotFoundError{Path: path, SourceTerm: source, TargetTerm: oldTarget}
	case matches > 1:
		return &AmbiguousUpdateError{Path: path, SourceTerm: source, Matches: matches}
	}

	updated := terms[index]
	updated.TargetTerm = newTarget
	if note != nil {
		updated.Note = Normalize(*note)
	}

	if updated == terms[index] {
		return &DuplicateEntryError{Path: path, Term: updated}
	}
	for i, t := range terms {
		if i != index && t.SamePair(updated) {
			return &DuplicateEntryError{Path: path, Term: updated}
		}
	}

	terms[index] = updated
	return s.Save(path, terms)
}

// Delete removes entries for source. With a target only that pair is removed;
// without one the source must be unambiguous unless force is set. It returns
// the number of removed entries.
func (s *Store) Delete(path, source string, target *string, force bool) (int, error) {
	terms, err := s.Load(path)
	if err != nil {
		return 0, err
	}

	source = Normalize(source)

	keep := make([]Term, 0, len(terms))
	removed := 0
	for _, t := range terms {
		match := t.SourceTerm == source
		if target != nil {
			match = match && t.TargetTerm == Normalize(*target)
		}
		if match {
			removed++
			continue
		}
		keep = append(keep, t)
	}

	if removed == 0 {
		nf := &NotFoundError{Path: path, SourceTerm: source}
		if target != nil {
			nf.TargetTerm = Normalize(*target)
		}
		return 0, nf
	}
	if target == nil && removed > 1 && !force {
		return 0, &AmbiguousDeleteError{Path: path, SourceTerm: source, Matches: removed}
	}

	if err := s.Save(path, keep); err != nil {
		return 0, err
	}
	return removed, nil
}
