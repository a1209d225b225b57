package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/loga/internal"
	"codeberg.org/snonux/loga/internal/config"
	"codeberg.org/snonux/loga/internal/glossary"
	"codeberg.org/snonux/loga/internal/home"
	"codeberg.org/snonux/loga/internal/index"
	"codeberg.org/snonux/loga/internal/registry"
)

// Source is one readable glossary file
type Source = glossary.Source

// Scope narrows a lookup. Empty fields match everything.
type Scope struct {
	Glossary       string
	SourceLanguage string
	TargetLanguage string
}

func (s Scope) includes(g glossary.Glossary) bool {
	if s.Glossary != "" && g.Name != s.Glossary {
		return false
	}
	if s.SourceLanguage != "" && g.SourceLanguage != s.SourceLanguage {
		return false
	}
	if s.TargetLanguage != "" && g.TargetLanguage != s.TargetLanguage {
		return false
	}
	return true
}

// Match is a lookup hit. Annotate is set when several glossaries are
// registered and the lookup was not narrowed to one of them.
type Match struct {
	Glossary glossary.Glossary
	Term     glossary.Term
	Annotate bool
}

// Stats summarises the lookup index
type Stats struct {
	Refreshed int
	Sources   int
	Terms     int
}

// Repository gives access to all registered glossaries
type Repository struct {
	home     *home.Home
	registry *registry.Registry
	store    *glossary.Store
	index    *index.Index
}

// New creates a repository. The lookup index is opened on first use.
func New(h *home.Home, reg *registry.Registry, store *glossary.Store) *Repository {
	return &Repository{home: h, registry: reg, store: store}
}

// Close releases the lookup index if it was opened
func (r *Repository) Close() error {
	if r.index == nil {
		return nil
	}
	err := r.index.Close()
	r.index = nil
	return err
}

func (r *Repository) openIndex() (*index.Index, error) {
	if r.index != nil {
		return r.index, nil
	}

	x, err := index.Open(r.home.IndexPath())
	if err != nil {
		return nil, err
	}
	r.index = x
	return x, nil
}

// projectGlossary resolves the glossary triple configured for a registration
func (r *Repository) projectGlossary(e registry.Entry) (glossary.Glossary, error) {
	eff, err := config.NewResolver(r.home, filepath.Dir(e.ConfigDir)).Resolve(nil)
	if err != nil {
		return glossary.Glossary{}, err
	}

	g := glossary.Glossary{
		Name:           eff.Glossary,
		SourceLanguage: eff.SourceLanguage,
		TargetLanguage: eff.TargetLanguage,
	}
	if g.Name == "" {
		g.Name = e.Name
	}
	return g, nil
}

// names returns the glossary names of all registered projects in registry
// order without duplicates
func (r *Repository) names() ([]string, error) {
	entries, err := r.registry.List()
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if _, err := os.Stat(e.ConfigDir); err != nil {
			log.Debug().Str("project", e.Name).Str("config_dir", e.ConfigDir).Msg("skipping project without config dir")
			continue
		}

		g, err := r.projectGlossary(e)
		if err != nil {
			return nil, err
		}
		if seen[g.Name] {
			continue
		}
		seen[g.Name] = true
		names = append(names, g.Name)
	}
	return names, nil
}

// sourcePattern matches every file named name.source.target.ext
const sourcePattern = "*.*.*.{yml,yaml,csv,tsv}"

// sourcesOf finds the files of the named glossary accepted by keep. The
// native store of a language pair comes before its tabular siblings.
func (r *Repository) sourcesOf(name string, keep func(glossary.Glossary) bool) ([]Source, error) {
	dir := glossary.Dir(r.home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("glossary", name).Msg("glossary directory missing")
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), sourcePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var sources []Source
	for _, m := range matches {
		path := filepath.Join(dir, m)
		g, format, err := glossary.ParseSourceName(path)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("ignoring file")
			continue
		}
		if g.Name != internal.SanitizeFilename(name) {
			continue
		}
		g.Name = name
		if keep != nil && !keep(g) {
			continue
		}
		sources = append(sources, Source{Glossary: g, Path: path, Format: format})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		a, b := sources[i].Glossary.String(), sources[j].Glossary.String()
		if a != b {
			return a < b
		}
		return sources[i].Format < sources[j].Format
	})
	return sources, nil
}

// Glossaries returns the sources of every registered glossary in registry order
func (r *Repository) Glossaries() ([]Source, error) {
	names, err := r.names()
	if err != nil {
		return nil, err
	}
	return r.sourcesFor(names)
}

func (r *Repository) sourcesFor(names []string) ([]Source, error) {
	var all []Source
	for _, name := range names {
		sources, err := r.sourcesOf(name, nil)
		if err != nil {
			return nil, err
		}
		all = append(all, sources...)
	}
	return all, nil
}

func (r *Repository) load(src Source) ([]glossary.Term, error) {
	return r.store.ReadSource(src.Path)
}

// Lookup returns every term in scope whose source term contains fragment
func (r *Repository) Lookup(fragment string, scope Scope) ([]Match, error) {
	names, err := r.names()
	if err != nil {
		return nil, err
	}
	sources, err := r.sourcesFor(names)
	if err != nil {
		return nil, err
	}

	x, err := r.openIndex()
	if err != nil {
		return nil, err
	}
	if _, err := x.Refresh(sources, r.load); err != nil {
		return nil, err
	}

	var paths []string
	for _, src := range sources {
		if scope.includes(src.Glossary) {
			paths = append(paths, src.Path)
		}
	}

	rows, err := x.Search(paths, glossary.Normalize(fragment))
	if err != nil {
		return nil, err
	}

	// Annotation depends on the registered glossaries, not on the pair filter
	annotate := scope.Glossary == "" && len(names) > 1
	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, Match{Glossary: row.Glossary, Term: row.Term, Annotate: annotate})
	}

	log.Debug().Str("fragment", fragment).Int("sources", len(paths)).Int("matches", len(matches)).Msg("lookup")
	return matches, nil
}

// Show returns the terms of one glossary triple: the native store first,
// then any tabular files of the same triple
func (r *Repository) Show(g glossary.Glossary) ([]glossary.Term, error) {
	sources, err := r.sourcesOf(g.Name, func(found glossary.Glossary) bool {
		return found.SamePair(internal.SanitizeFilename(g.SourceLanguage), internal.SanitizeFilename(g.TargetLanguage))
	})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, &glossary.NotFoundError{Path: glossary.PathOf(r.home, g)}
	}

	var terms []glossary.Term
	for _, src := range sources {
		loaded, err := r.load(src)
		if err != nil {
			return nil, err
		}
		terms = append(terms, loaded...)
	}
	return terms, nil
}

// List returns the sorted names of all registered glossaries
func (r *Repository) List() ([]string, error) {
	names, err := r.names()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Reindex refreshes the lookup index, dropping it first when rebuild is set
func (r *Repository) Reindex(rebuild bool) (Stats, error) {
	x, err := r.openIndex()
	if err != nil {
		return Stats{}, err
	}
	if rebuild {
		if err := x.Rebuild(); err != nil {
			return Stats{}, err
		}
	}

	sources, err := r.Glossaries()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	if stats.Refreshed, err = x.Refresh(sources, r.load); err != nil {
		return stats, err
	}
	if stats.Sources, stats.Terms, err = x.Count(); err != nil {
		return stats, err
	}
	return stats, nil
}
