package batch

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Entry is one term pair read from a batch file
type Entry struct {
	Source string
	Target string
	Note   string
	// Line is the 1-based line number in the batch file
	Line int
}

// ReadBatchFile reads term pairs from a file and returns the entries along
// with the number of lines that could not be used.
// Supported line formats:
// - "source = target"
// - "source = target # note"
// - "# comment" and blank lines are ignored
// Only the first '=' separates source and target, and the note starts at
// the first " #" after it, so "C# = シーシャープ" keeps its hash.
func ReadBatchFile(filename string) ([]Entry, int, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []Entry
	skipped := 0

	for i, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, ok := parseLine(line)
		if !ok {
			log.Debug().Str("file", filename).Int("line", i+1).Msg("skipping malformed batch line")
			skipped++
			continue
		}
		entry.Line = i + 1
		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

func parseLine(line string) (Entry, bool) {
	source, rest, found := strings.Cut(line, "=")
	if !found {
		return Entry{}, false
	}

	target, note, _ := strings.Cut(rest, " #")

	entry := Entry{
		Source: strings.TrimSpace(source),
		Target: strings.TrimSpace(target),
		Note:   strings.TrimSpace(note),
	}
	if entry.Source == "" || entry.Target == "" {
		return Entry{}, false
	}
	return entry, true
}

// splitLines splits a string by newlines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.Split(s, "\n")
}
