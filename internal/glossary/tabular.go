package glossary

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Format is the on-disk format of a glossary source
type Format int

const (
	// FormatYAML is the native, writable store
	FormatYAML Format = iota
	// FormatCSV is a headerless comma separated file
	FormatCSV
	// FormatTSV is a headerless tab separated file
	FormatTSV
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// Ext returns the file extension including the dot
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatTSV:
		return ".tsv"
	default:
		return ".yml"
	}
}

// DetectFormat derives the format from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	}
	return FormatYAML, fmt.Errorf("unsupported glossary format: %s", filepath.Base(path))
}

// ParseSourceName splits a file name of the form name.source.target.ext
func ParseSourceName(path string) (Glossary, Format, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Glossary{}, format, err
	}

	base := filepath.Base(path)
	parts := strings.Split(strings.TrimSuffix(base, filepath.Ext(base)), ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Glossary{}, format, fmt.Errorf("glossary file name must be name.source.target%s: %s", format.Ext(), base)
	}

	return Glossary{Name: parts[0], SourceLanguage: parts[1], TargetLanguage: parts[2]}, format, nil
}

// ReadTabular reads a headerless CSV or TSV glossary. The first two columns
// are source and target term, an optional third column is the note.
func ReadTabular(path string) ([]Term, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return nil, fmt.Errorf("not a tabular glossary: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data, enc, err := DecodeToUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s as %s: %w", path, enc.Encoding, err)
	}
	log.Debug().Str("path", path).Str("encoding", enc.Encoding).Msg("reading tabular glossary")

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if format == FormatTSV {
		reader.Comma = '\t'
	}

	var terms []Term
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" || strings.TrimSpace(fields[1]) == "" {
			log.Debug().Str("path", path).Int("row", row).Msg("skipping incomplete row")
			continue
		}

		note := ""
		if len(fields) > 2 {
			note = fields[2]
		}
		terms = append(terms, NewTerm(fields[0], fields[1], note))
	}

	return terms, nil
}

// ReadSource loads terms from any supported glossary file
func (s *Store) ReadSource(path string) ([]Term, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return s.Load(path)
	}
	return ReadTabular(path)
}
