package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/loga/internal/archive"
	"codeberg.org/snonux/loga/internal/batch"
	"codeberg.org/snonux/loga/internal/config"
	"codeberg.org/snonux/loga/internal/glossary"
	"codeberg.org/snonux/loga/internal/home"
	"codeberg.org/snonux/loga/internal/registry"
	"codeberg.org/snonux/loga/internal/repository"
)

// Facade runs loga operations for the project in dir
type Facade struct {
	home     *home.Home
	dir      string
	options  config.Options
	resolver *config.Resolver
	registry *registry.Registry
	store    *glossary.Store
	repo     *repository.Repository
	out      io.Writer
}

// NewFacade creates a facade for the project rooted at dir. options holds
// the options given explicitly for this invocation.
func NewFacade(h *home.Home, dir string, options config.Options, out io.Writer) *Facade {
	if options == nil {
		options = config.Options{}
	}

	reg := registry.New(h)
	store := glossary.NewStore()

	return &Facade{
		home:     h,
		dir:      dir,
		options:  options,
		resolver: config.NewResolver(h, dir),
		registry: reg,
		store:    store,
		repo:     repository.New(h, reg, store),
		out:      out,
	}
}

// Close releases the lookup index
func (f *Facade) Close() error {
	return f.repo.Close()
}

func (f *Facade) say(msg string) error {
	_, err := io.WriteString(f.out, msg)
	return err
}

func (f *Facade) marker() string {
	return home.MarkerPath(f.dir)
}

func (f *Facade) checkMarker() error {
	if _, err := os.Stat(f.marker()); err != nil {
		return &ConfigMissingError{Marker: f.marker()}
	}
	return nil
}

func (f *Facade) effective() (*config.Effective, error) {
	return f.resolver.Resolve(f.options)
}

// project resolves the glossary of the current project. It returns a user
// message instead of a glossary when something is missing.
func (f *Facade) project() (glossary.Glossary, *config.Effective, string, error) {
	if err := f.checkMarker(); err != nil {
		return glossary.Glossary{}, nil, msgTryNew, nil
	}

	eff, err := f.effective()
	if err != nil {
		return glossary.Glossary{}, nil, "", err
	}

	switch {
	case eff.Glossary == "":
		return glossary.Glossary{}, eff, msgInputGlossary, nil
	case eff.SourceLanguage == "":
		return glossary.Glossary{}, eff, msgInputSource, nil
	case eff.TargetLanguage == "":
		return glossary.Glossary{}, eff, msgInputTarget, nil
	}

	g := glossary.Glossary{
		Name:           eff.Glossary,
		SourceLanguage: eff.SourceLanguage,
		TargetLanguage: eff.TargetLanguage,
	}
	return g, eff, "", nil
}

// New creates the project marker and config, then registers the project
// unless no-register is set
func (f *Facade) New(name, sourceLang, targetLang string) error {
	marker := f.marker()
	if _, err := os.Stat(marker); err == nil {
		return f.say(msgAlreadyExists(marker))
	}

	if err := os.MkdirAll(marker, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", marker, err)
	}

	values := map[string]string{
		config.KeyGlossary:       name,
		config.KeySourceLanguage: sourceLang,
		config.KeyTargetLanguage: targetLang,
	}
	if err := config.WriteFile(home.ProjectConfigFile(f.dir), config.Keys, values); err != nil {
		return fmt.Errorf("failed to write project config: %w", err)
	}
	log.Debug().Str("marker", marker).Str("glossary", name).Msg("project created")

	eff, err := f.effective()
	if err != nil {
		return err
	}
	if eff.NoRegister {
		return nil
	}

	_, err = f.register(name)
	return err
}

// register links name to the marker of this project and prints a message
// when the name is taken
func (f *Facade) register(name string) (bool, error) {
	added, err := f.registry.Register(name, f.marker())
	var already *registry.AlreadyRegisteredError
	if errors.As(err, &already) {
		return false, f.say(msgAlreadyRegistered(name))
	}
	return added, err
}

// Register adds the current project to the registry
func (f *Facade) Register() error {
	if err := f.checkMarker(); err != nil {
		return f.say(msgTryNew)
	}

	eff, err := f.effective()
	if err != nil {
		return err
	}
	if eff.Glossary == "" {
		return f.say(msgInputGlossary)
	}

	_, err = f.register(eff.Glossary)
	return err
}

// Unregister removes a project from the registry. Outside of a project the
// glossary name must be given explicitly.
func (f *Facade) Unregister() error {
	eff, err := f.effective()
	if err != nil {
		return err
	}
	if eff.Glossary == "" {
		return f.say(msgInputGlossary)
	}

	err = f.registry.Unregister(eff.Glossary)
	if errors.Is(err, registry.ErrNotRegistered) {
		return f.say(msgNotRegistered(eff.Glossary))
	}
	return err
}

// Config stores key=value in the project config, or in the global config
// when the global option is set
func (f *Facade) Config(key, value string) error {
	eff, err := f.effective()
	if err != nil {
		return err
	}

	scope := config.ScopeProject
	if eff.Global {
		scope = config.ScopeGlobal
	} else if err := f.checkMarker(); err != nil {
		return f.say(msgTryNew)
	}

	err = f.resolver.Write(scope, key, value)
	if errors.Is(err, config.ErrUnknownKey) {
		return f.say(msgUnknownKey(key))
	}
	if err == nil {
		log.Debug().Str("scope", scope.String()).Str("key", key).Msg("config written")
	}
	return err
}

// Add stores a term in the project glossary
func (f *Facade) Add(source, target, note string) error {
	g, _, msg, err := f.project()
	if err != nil || msg != "" {
		return f.sayOr(msg, err)
	}

	term := glossary.NewTerm(source, target, note)
	return f.report(g, f.store.Append(glossary.PathOf(f.home, g), term))
}

// Update replaces the target term of (source, oldTarget). A nil note keeps
// the stored note.
func (f *Facade) Update(source, oldTarget, newTarget string, note *string) error {
	g, _, msg, err := f.project()
	if err != nil || msg != "" {
		return f.sayOr(msg, err)
	}

	err = f.store.Update(glossary.PathOf(f.home, g), source, oldTarget, newTarget, note)
	return f.report(g, err)
}

// Delete removes terms of source. Without target several matches need the
// force option.
func (f *Facade) Delete(source string, target *string) error {
	g, eff, msg, err := f.project()
	if err != nil || msg != "" {
		return f.sayOr(msg, err)
	}

	n, err := f.store.Delete(glossary.PathOf(f.home, g), source, target, eff.Force)
	if err == nil {
		log.Debug().Str("source_term", source).Int("removed", n).Msg("terms deleted")
	}
	return f.report(g, err)
}

// Lookup prints every registered term whose source term contains fragment.
// It reads only the registry, so it runs without a project marker.
func (f *Facade) Lookup(fragment string) error {
	eff, err := f.effective()
	if err != nil {
		return err
	}

	scope := repository.Scope{
		SourceLanguage: eff.SourceLanguage,
		TargetLanguage: eff.TargetLanguage,
	}
	// The project glossary name is always configured, so it only narrows
	// the lookup when given on the command line
	if name, ok := f.options[config.KeyGlossary]; ok {
		scope.Glossary = name
	}

	matches, err := f.repo.Lookup(fragment, scope)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return f.say(msgLookupNotFound(fragment))
	}

	for _, m := range matches {
		line := formatTerm(m.Term)
		if m.Annotate {
			line += fmt.Sprintf(" (%s)", m.Glossary.Name)
		}
		if err := f.say(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Show prints all terms of the project glossary
func (f *Facade) Show() error {
	g, _, msg, err := f.project()
	if err != nil || msg != "" {
		return f.sayOr(msg, err)
	}

	terms, err := f.repo.Show(g)
	if err != nil {
		return f.report(g, err)
	}

	for _, t := range terms {
		if err := f.say(formatTerm(t) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// List prints the names of all registered glossaries. It does not need a
// project marker.
func (f *Facade) List() error {
	names, err := f.repo.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return f.say(msgNoGlossary)
	}

	for _, name := range names {
		if err := f.say(fmt.Sprintf("  %s\n", name)); err != nil {
			return err
		}
	}
	return nil
}

// AddBatch adds every "source = target # note" line of file
func (f *Facade) AddBatch(file string) error {
	g, _, msg, err := f.project()
	if err != nil || msg != "" {
		return f.sayOr(msg, err)
	}

	entries, skipped, err := batch.ReadBatchFile(file)
	if err != nil {
		return err
	}

	terms := make([]glossary.Term, 0, len(entries))
	for _, e := range entries {
		terms = append(terms, glossary.NewTerm(e.Source, e.Target, e.Note))
	}
	return f.addAll(g, terms, skipped)
}

// Import adds the terms of an external CSV or TSV file to the project glossary
func (f *Facade) Import(file string) error {
	g, _, msg, err := f.project()
	if err != nil || msg != "" {
		return f.sayOr(msg, err)
	}

	terms, err := glossary.ReadTabular(file)
	if errors.Is(err, glossary.ErrNotFound) {
		return f.say(fmt.Sprintf("%s not found\n", file))
	}
	if err != nil {
		return err
	}
	return f.addAll(g, terms, 0)
}

func (f *Facade) addAll(g glossary.Glossary, terms []glossary.Term, skipped int) error {
	path := glossary.PathOf(f.home, g)

	added, duplicates := 0, 0
	for _, t := range terms {
		err := f.store.Append(path, t)
		if errors.Is(err, glossary.ErrDuplicateEntry) {
			duplicates++
			continue
		}
		if err != nil {
			return err
		}
		added++
	}

	return f.say(fmt.Sprintf("%d terms added to '%s', %d already existed, %d lines skipped\n",
		added, g.Name, duplicates, skipped))
}

// Archive moves the project glossary file into the archive directory
func (f *Facade) Archive() error {
	g, _, msg, err := f.project()
	if err != nil || msg != "" {
		return f.sayOr(msg, err)
	}

	path := glossary.PathOf(f.home, g)
	if !f.store.Exists(path) {
		return f.say(msgGlossaryNotFound(g))
	}

	archived, err := archive.ArchiveGlossary(path, f.home.ArchiveDir())
	if err != nil {
		return err
	}
	return f.say(fmt.Sprintf("%s archived to %s\n", g, archived))
}

// Index refreshes the lookup index, rebuilding it from scratch if asked
func (f *Facade) Index(rebuild bool) error {
	stats, err := f.repo.Reindex(rebuild)
	if err != nil {
		return err
	}
	return f.say(fmt.Sprintf("%d sources refreshed, %d sources and %d terms indexed\n",
		stats.Refreshed, stats.Sources, stats.Terms))
}

func (f *Facade) sayOr(msg string, err error) error {
	if err != nil {
		return err
	}
	return f.say(msg)
}

// report turns store errors the user can act on into messages
func (f *Facade) report(g glossary.Glossary, err error) error {
	if err == nil {
		return nil
	}

	var (
		duplicate *glossary.DuplicateEntryError
		notFound  *glossary.NotFoundError
	)
	switch {
	case errors.As(err, &duplicate):
		return f.say(msgTermExists(duplicate.Term, g.Name))
	case errors.As(err, &notFound):
		if notFound.SourceTerm == "" {
			return f.say(msgGlossaryNotFound(g))
		}
		return f.say(msgTermNotFound(notFound.SourceTerm, notFound.TargetTerm, g.Name))
	case errors.Is(err, glossary.ErrAmbiguousDelete):
		return f.say(msgDuplicateDelete)
	case errors.Is(err, glossary.ErrAmbiguousUpdate):
		return f.say(msgDuplicateUpdate)
	}
	return err
}
