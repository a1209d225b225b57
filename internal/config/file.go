package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/loga/internal"
)

// entry is one parsed config line; lines that hold no option keep key empty
type entry struct {
	key   string
	value string
	raw   string
}

// parseLine parses "--key value", "--key=value" and bare "--flag" lines
func parseLine(line string) (entry, bool) {
	e := entry{raw: line}

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "--") {
		return e, false
	}
	trimmed = strings.TrimPrefix(trimmed, "--")

	key, value := trimmed, ""
	if i := strings.IndexAny(trimmed, " \t="); i >= 0 {
		key, value = trimmed[:i], trimmed[i+1:]
	}
	if key == "" {
		return e, false
	}

	value = strings.TrimSpace(value)
	if value == "" {
		value = "true"
	}

	e.key = key
	e.value = value
	return e, true
}

func readEntries(path string) ([]entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var entries []entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		e, _ := parseLine(scanner.Text())
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return entries, nil
}

// ReadFile returns the options stored at path. A missing file is an empty map.
func ReadFile(path string) (map[string]string, error) {
	entries, err := readEntries(path)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for _, e := range entries {
		if e.key != "" {
			values[e.key] = e.value
		}
	}
	return values, nil
}

// writeKey sets key to value in the file at path, leaving other lines alone
func writeKey(path, key, value string) error {
	entries, err := readEntries(path)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("--%s %s", key, value)

	var lines []string
	written := false
	for _, e := range entries {
		if e.key != key {
			lines = append(lines, e.raw)
			continue
		}
		// Later duplicates would shadow the new value
		if !written {
			lines = append(lines, line)
			written = true
		}
	}
	if !written {
		lines = append(lines, line)
	}

	data := strings.Join(lines, "\n") + "\n"
	return internal.WriteFileAtomic(path, []byte(data), 0644)
}

// WriteFile writes a complete option set in the given key order
func WriteFile(path string, keys []string, values map[string]string) error {
	var b strings.Builder
	for _, key := range keys {
		if value, ok := values[key]; ok && value != "" {
			fmt.Fprintf(&b, "--%s %s\n", key, value)
		}
	}
	return internal.WriteFileAtomic(path, []byte(b.String()), 0644)
}
