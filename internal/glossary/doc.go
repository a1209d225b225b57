// Package glossary stores bilingual term lists. A glossary is identified by
// its name and language pair and persisted as a YAML list of terms; external
// CSV/TSV files placed next to it are read as additional, read-only sources.
package glossary
