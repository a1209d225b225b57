package testutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// ErrWriteFailed is returned by FailingWriter
var ErrWriteFailed = errors.New("write failed")

// FailingWriter is an io.Writer that always fails
type FailingWriter struct {
	Calls int
}

// Write records the call and fails
func (w *FailingWriter) Write(p []byte) (int, error) {
	w.Calls++
	return 0, ErrWriteFailed
}

// TermFixture is a raw glossary record for hand-written test files
type TermFixture struct {
	Source string
	Target string
	Note   string
}

// WriteGlossaryFile writes terms as a native glossary file without going
// through the store, so tests can create states the store would refuse
func WriteGlossaryFile(t *testing.T, path string, terms ...TermFixture) {
	t.Helper()

	var b strings.Builder
	if len(terms) == 0 {
		b.WriteString("[]\n")
	}
	for _, term := range terms {
		fmt.Fprintf(&b, "- source_term: %q\n  target_term: %q\n  note: %q\n", term.Source, term.Target, term.Note)
	}

	CreateTestFile(t, path, []byte(b.String()))
}

// WriteConfigFile writes a config file with one option line per entry
func WriteConfigFile(t *testing.T, path string, lines ...string) {
	t.Helper()

	CreateTestFile(t, path, []byte(strings.Join(lines, "\n")+"\n"))
}

// SampleTerms returns the terms used across the command tests
func SampleTerms() []TermFixture {
	return []TermFixture{
		{Source: "spec", Target: "スペック", Note: "備考"},
		{Source: "spec-test", Target: "スペックてすと", Note: "備考"},
		{Source: "spec-test-test", Target: "スペックてすとてすと", Note: "備考"},
		{Source: "test_logaling", Target: "テスト"},
	}
}
