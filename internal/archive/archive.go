package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ArchiveGlossary moves a glossary file into archiveDir under a timestamped
// name and returns the new path
func ArchiveGlossary(path, archiveDir string) (string, error) {
	// Check if the glossary file exists
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("glossary file does not exist: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat glossary file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a glossary file: %s", path)
	}

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))

	// Archives within the same second get a counter suffix
	for n := 1; ; n++ {
		if _, err := os.Stat(archivePath); os.IsNotExist(err) {
			break
		}
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s-%d%s", base, timestamp, n, ext))
	}

	if err := os.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive glossary: %w", err)
	}

	log.Debug().Str("from", path).Str("to", archivePath).Msg("glossary archived")
	return archivePath, nil
}
