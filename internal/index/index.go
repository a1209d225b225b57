package index

import (
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/loga/internal/glossary"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is kept in PRAGMA user_version. Index files of another
// version are rebuilt on open.
const schemaVersion = 2

var dropSQL = []string{
	"DROP TABLE IF EXISTS terms",
	"DROP TABLE IF EXISTS sources",
}

// Loader reads the terms of one source
type Loader func(src glossary.Source) ([]glossary.Term, error)

// Row is a term found by Search
type Row struct {
	Path     string
	Glossary glossary.Glossary
	Seq      int
	Term     glossary.Term
}

// Index is the lookup database
type Index struct {
	db   *sql.DB
	path string
}

// Open opens or creates the index database at path
func Open(path string) (*Index, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	db.SetMaxOpenConns(1)

	x := &Index{db: db, path: path}
	if err := x.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise index: %w", err)
	}

	return x, nil
}

func (x *Index) migrate() error {
	var version int
	if err := x.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version != schemaVersion {
		for _, s := range dropSQL {
			if _, err := x.db.Exec(s); err != nil {
				return err
			}
		}
		log.Debug().Str("path", x.path).Int("from", version).Int("to", schemaVersion).Msg("index schema reset")
	}
	if err := initDB(x.db); err != nil {
		return err
	}
	_, err := x.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

// Close releases the database
func (x *Index) Close() error {
	return x.db.Close()
}

func initDB(db *sql.DB) error {
	for _, s := range strings.Split(schemaSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Rebuild drops every indexed source. The next Refresh reloads all of them.
func (x *Index) Rebuild() error {
	for _, s := range dropSQL {
		if _, err := x.db.Exec(s); err != nil {
			return fmt.Errorf("failed to drop index: %w", err)
		}
	}
	if err := initDB(x.db); err != nil {
		return fmt.Errorf("failed to recreate index: %w", err)
	}

	log.Debug().Str("path", x.path).Msg("index rebuilt")
	return nil
}

type stamp struct {
	id     int64
	mtime  int64
	size   int64
	digest string
}

// digestOf hashes the file content. Same-sized rewrites within the
// filesystem's timestamp resolution keep mtime and size.
func digestOf(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (x *Index) stamps() (map[string]stamp, error) {
	rows, err := x.db.Query("SELECT id, path, mtime, size, digest FROM sources")
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	defer rows.Close()

	out := make(map[string]stamp)
	for rows.Next() {
		var path string
		var st stamp
		if err := rows.Scan(&st.id, &path, &st.mtime, &st.size, &st.digest); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		out[path] = st
	}
	return out, rows.Err()
}

// Refresh brings the index in line with sources. Sources whose file changed
// are reloaded, sources no longer listed or no longer on disk are dropped.
// It returns the number of reloaded sources.
func (x *Index) Refresh(sources []glossary.Source, load Loader) (int, error) {
	known, err := x.stamps()
	if err != nil {
		return 0, err
	}

	wanted := make(map[string]bool, len(sources))
	refreshed := 0

	for _, src := range sources {
		info, err := os.Stat(src.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return refreshed, fmt.Errorf("failed to stat %s: %w", src.Path, err)
		}
		wanted[src.Path] = true

		digest, err := digestOf(src.Path)
		if err != nil {
			return refreshed, fmt.Errorf("failed to read %s: %w", src.Path, err)
		}

		st, ok := known[src.Path]
		if ok && st.mtime == info.ModTime().UnixNano() && st.size == info.Size() && st.digest == digest {
			continue
		}

		terms, err := load(src)
		if err != nil {
			return refreshed, err
		}
		if err := x.store(src, info, digest, terms); err != nil {
			return refreshed, err
		}
		refreshed++
		log.Debug().Str("path", src.Path).Int("terms", len(terms)).Msg("source indexed")
	}

	for path, st := range known {
		if wanted[path] {
			continue
		}
		if err := x.remove(st.id); err != nil {
			return refreshed, err
		}
		log.Debug().Str("path", path).Msg("source dropped from index")
	}

	return refreshed, nil
}

func (x *Index) store(src glossary.Source, info os.FileInfo, digest string, terms []glossary.Term) (err error) {
	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	g := src.Glossary
	_, err = tx.Exec(`INSERT INTO sources (path, name, source_language, target_language, format, mtime, size, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			source_language = excluded.source_language,
			target_language = excluded.target_language,
			format = excluded.format,
			mtime = excluded.mtime,
			size = excluded.size,
			digest = excluded.digest`,
		src.Path, g.Name, g.SourceLanguage, g.TargetLanguage, src.Format.String(),
		info.ModTime().UnixNano(), info.Size(), digest)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", src.Path, err)
	}

	var id int64
	if err = tx.QueryRow("SELECT id FROM sources WHERE path = ?", src.Path).Scan(&id); err != nil {
		return fmt.Errorf("failed to index %s: %w", src.Path, err)
	}

	if _, err = tx.Exec("DELETE FROM terms WHERE source_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear terms of %s: %w", src.Path, err)
	}

	stmt, err := tx.Prepare("INSERT INTO terms (source_id, seq, source_term, target_term, note) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for seq, t := range terms {
		if _, err = stmt.Exec(id, seq, t.SourceTerm, t.TargetTerm, t.Note); err != nil {
			return fmt.Errorf("failed to index term of %s: %w", src.Path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", src.Path, err)
	}
	return nil
}

func (x *Index) remove(id int64) error {
	if _, err := x.db.Exec("DELETE FROM terms WHERE source_id = ?", id); err != nil {
		return fmt.Errorf("failed to drop terms: %w", err)
	}
	if _, err := x.db.Exec("DELETE FROM sources WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to drop source: %w", err)
	}
	return nil
}

// Search returns the terms of the given sources whose source term contains
// fragment. The match is case sensitive. Rows come in the order of paths,
// then in file order.
func (x *Index) Search(paths []string, fragment string) ([]Row, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(paths)), ",")
	query := `SELECT s.path, s.name, s.source_language, s.target_language,
			t.seq, t.source_term, t.target_term, t.note
		FROM terms t JOIN sources s ON s.id = t.source_id
		WHERE s.path IN (` + placeholders + `) AND instr(t.source_term, ?) > 0
		ORDER BY t.seq`

	args := make([]any, 0, len(paths)+1)
	for _, p := range paths {
		args = append(args, p)
	}
	args = append(args, fragment)

	rows, err := x.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	defer rows.Close()

	byPath := make(map[string][]Row)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Path, &r.Glossary.Name, &r.Glossary.SourceLanguage, &r.Glossary.TargetLanguage,
			&r.Seq, &r.Term.SourceTerm, &r.Term.TargetTerm, &r.Term.Note); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		byPath[r.Path] = append(byPath[r.Path], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	var out []Row
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, byPath[p]...)
	}
	return out, nil
}

// Count returns the number of indexed sources and terms
func (x *Index) Count() (sources, terms int, err error) {
	if err = x.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&sources); err != nil {
		return 0, 0, fmt.Errorf("failed to count sources: %w", err)
	}
	if err = x.db.QueryRow("SELECT COUNT(*) FROM terms").Scan(&terms); err != nil {
		return 0, 0, fmt.Errorf("failed to count terms: %w", err)
	}
	return sources, terms, nil
}
