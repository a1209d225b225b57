package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/loga/internal/glossary"
)

type fixture struct {
	dir   string
	store *glossary.Store
	index *Index
	loads int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	x, err := Open(filepath.Join(dir, "db", "index.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = x.Close() })

	return &fixture{dir: dir, store: glossary.NewStore(), index: x}
}

func (f *fixture) source(t *testing.T, name string, terms ...glossary.Term) glossary.Source {
	t.Helper()

	path := filepath.Join(f.dir, name+".en.ja.yml")
	require.NoError(t, f.store.Save(path, terms))
	return glossary.Source{
		Glossary: glossary.Glossary{Name: name, SourceLanguage: "en", TargetLanguage: "ja"},
		Path:     path,
		Format:   glossary.FormatYAML,
	}
}

func (f *fixture) load(src glossary.Source) ([]glossary.Term, error) {
	f.loads++
	return f.store.ReadSource(src.Path)
}

func TestOpen_CreatesSchema(t *testing.T) {
	f := newFixture(t)

	for _, table := range []string{"sources", "terms"} {
		var name string
		err := f.index.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestRefreshAndSearch(t *testing.T) {
	f := newFixture(t)
	a := f.source(t, "spec",
		glossary.NewTerm("spec", "スペック", ""),
		glossary.NewTerm("specification", "仕様", "formal"),
		glossary.NewTerm("test", "テスト", ""),
	)
	b := f.source(t, "other", glossary.NewTerm("inspect", "検査", ""))

	n, err := f.index.Refresh([]glossary.Source{a, b}, f.load)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := f.index.Search([]string{b.Path, a.Path}, "spec")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "inspect", rows[0].Term.SourceTerm)
	assert.Equal(t, "other", rows[0].Glossary.Name)
	assert.Equal(t, "spec", rows[1].Term.SourceTerm)
	assert.Equal(t, "specification", rows[2].Term.SourceTerm)
	assert.Equal(t, "formal", rows[2].Term.Note)
}

func TestSearch_CaseSensitive(t *testing.T) {
	f := newFixture(t)
	a := f.source(t, "spec", glossary.NewTerm("Spec", "スペック", ""))

	_, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)

	rows, err := f.index.Search([]string{a.Path}, "spec")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = f.index.Search([]string{a.Path}, "Spe")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSearch_OnlyGivenPaths(t *testing.T) {
	f := newFixture(t)
	a := f.source(t, "spec", glossary.NewTerm("spec", "スペック", ""))
	b := f.source(t, "other", glossary.NewTerm("spec", "仕様", ""))

	_, err := f.index.Refresh([]glossary.Source{a, b}, f.load)
	require.NoError(t, err)

	rows, err := f.index.Search([]string{a.Path}, "spec")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "スペック", rows[0].Term.TargetTerm)

	rows, err = f.index.Search(nil, "spec")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRefresh_SkipsUnchanged(t *testing.T) {
	f := newFixture(t)
	a := f.source(t, "spec", glossary.NewTerm("spec", "スペック", ""))

	_, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)

	n, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, f.loads)
}

func TestRefresh_ReloadsChanged(t *testing.T) {
	f := newFixture(t)
	a := f.source(t, "spec", glossary.NewTerm("spec", "スペック", ""))

	_, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)

	require.NoError(t, f.store.Append(a.Path, glossary.NewTerm("spec-sheet", "仕様書", "")))

	n, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := f.index.Search([]string{a.Path}, "spec")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRefresh_ReloadsSameSizeRewrite(t *testing.T) {
	f := newFixture(t)
	a := f.source(t, "spec", glossary.NewTerm("spec", "スペック", "note-a"))

	_, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)

	before, err := os.Stat(a.Path)
	require.NoError(t, err)

	require.NoError(t, f.store.Save(a.Path, []glossary.Term{glossary.NewTerm("spec", "スペック", "note-b")}))
	require.NoError(t, os.Chtimes(a.Path, before.ModTime(), before.ModTime()))

	after, err := os.Stat(a.Path)
	require.NoError(t, err)
	require.Equal(t, before.Size(), after.Size())

	n, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := f.index.Search([]string{a.Path}, "spec")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "note-b", rows[0].Term.Note)
}

func TestOpen_ResetsOutdatedSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sqlite")

	x, err := Open(path)
	require.NoError(t, err)
	_, err = x.db.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	_, err = x.db.Exec("INSERT INTO sources (path, name, source_language, target_language, format, mtime, size) VALUES ('stale', 'spec', 'en', 'ja', 'yaml', 0, 0)")
	require.NoError(t, err)
	require.NoError(t, x.Close())

	x, err = Open(path)
	require.NoError(t, err)
	defer x.Close()

	sources, _, err := x.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, sources)

	var version int
	require.NoError(t, x.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, schemaVersion, version)
}

func TestRefresh_DropsVanishedSources(t *testing.T) {
	f := newFixture(t)
	a := f.source(t, "spec", glossary.NewTerm("spec", "スペック", ""))
	b := f.source(t, "other", glossary.NewTerm("spec", "仕様", ""))

	_, err := f.index.Refresh([]glossary.Source{a, b}, f.load)
	require.NoError(t, err)

	require.NoError(t, os.Remove(b.Path))
	_, err = f.index.Refresh([]glossary.Source{a, b}, f.load)
	require.NoError(t, err)

	sources, terms, err := f.index.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, sources)
	assert.Equal(t, 1, terms)

	// Sources no longer in scope are dropped as well
	_, err = f.index.Refresh(nil, f.load)
	require.NoError(t, err)
	sources, _, err = f.index.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, sources)
}

func TestRebuild(t *testing.T) {
	f := newFixture(t)
	a := f.source(t, "spec", glossary.NewTerm("spec", "スペック", ""))

	_, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)
	require.NoError(t, f.index.Rebuild())

	sources, terms, err := f.index.Count()
	require.NoError(t, err)
	assert.Zero(t, sources)
	assert.Zero(t, terms)

	n, err := f.index.Refresh([]glossary.Source{a}, f.load)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRefresh_TabularSource(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "spec.en.ja.csv")
	require.NoError(t, os.WriteFile(path, []byte("spec,スペック\nsample,サンプル,note\n"), 0644))

	src := glossary.Source{
		Glossary: glossary.Glossary{Name: "spec", SourceLanguage: "en", TargetLanguage: "ja"},
		Path:     path,
		Format:   glossary.FormatCSV,
	}
	_, err := f.index.Refresh([]glossary.Source{src}, f.load)
	require.NoError(t, err)

	rows, err := f.index.Search([]string{path}, "sa")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "note", rows[0].Term.Note)
}
