package glossary

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/loga/internal"
	"codeberg.org/snonux/loga/internal/home"
)

// Term is a single bilingual entry
type Term struct {
	SourceTerm string `yaml:"source_term"`
	TargetTerm string `yaml:"target_term"`
	Note       string `yaml:"note"`
}

// NewTerm builds a normalized term
func NewTerm(source, target, note string) Term {
	return Term{
		SourceTerm: Normalize(source),
		TargetTerm: Normalize(target),
		Note:       Normalize(note),
	}
}

// SamePair reports whether both terms carry the same source/target pair
func (t Term) SamePair(other Term) bool {
	return t.SourceTerm == other.SourceTerm && t.TargetTerm == other.TargetTerm
}

// Normalize trims surrounding whitespace and converts to NFC
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Glossary identifies a glossary by name and language pair
type Glossary struct {
	Name           string
	SourceLanguage string
	TargetLanguage string
}

// String renders the glossary as name.source.target
func (g Glossary) String() string {
	return fmt.Sprintf("%s.%s.%s", g.Name, g.SourceLanguage, g.TargetLanguage)
}

// SamePair reports whether both glossaries translate between the same languages
func (g Glossary) SamePair(source, target string) bool {
	return g.SourceLanguage == source && g.TargetLanguage == target
}

// Dir returns the directory holding every file of the named glossary
func Dir(h *home.Home, name string) string {
	return filepath.Join(h.GlossaryRoot(), internal.SanitizeFilename(name))
}

// BuildPath returns the native store path for a glossary triple
func BuildPath(h *home.Home, name, sourceLang, targetLang string) string {
	base := strings.Join([]string{
		internal.SanitizeFilename(name),
		internal.SanitizeFilename(sourceLang),
		internal.SanitizeFilename(targetLang),
	}, ".")
	return filepath.Join(Dir(h, name), base+FormatYAML.Ext())
}

// PathOf is BuildPath for a Glossary value
func PathOf(h *home.Home, g Glossary) string {
	return BuildPath(h, g.Name, g.SourceLanguage, g.TargetLanguage)
}

// Source is one readable file of a glossary
type Source struct {
	Glossary Glossary
	Path     string
	Format   Format
}
