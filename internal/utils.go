package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Version is the loga release version
const Version = "0.3.0"

// WriteFileAtomic writes data to a temp file next to path and renames it into place,
// so an interrupted write never leaves a truncated file behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any early return; after a successful rename it is gone anyway
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// SanitizeFilename creates a safe filename component from a glossary name or language code
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAllowed(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAllowed reports whether a rune may appear in a glossary file name.
// Dots are excluded since they separate name, source and target language.
func isAllowed(r rune) bool {
	switch {
	case r == '/' || r == '\\' || r == '.' || r == ':':
		return false
	case r < 0x20 || r == 0x7f:
		return false
	case r == ' ':
		return false
	}
	return true
}
