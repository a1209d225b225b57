package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"codeberg.org/snonux/loga/internal"
	"codeberg.org/snonux/loga/internal/home"
)

var (
	// ErrNotRegistered is matched by NotRegisteredError
	ErrNotRegistered = errors.New("not registered")
	// ErrAlreadyRegistered is matched by AlreadyRegisteredError
	ErrAlreadyRegistered = errors.New("already registered")
)

// NotRegisteredError reports an unknown project name
type NotRegisteredError struct {
	Name string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("%s is not yet registered", e.Name)
}

func (e *NotRegisteredError) Unwrap() error { return ErrNotRegistered }

// AlreadyRegisteredError reports a name taken by a different project
type AlreadyRegisteredError struct {
	Name      string
	ConfigDir string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("%s is already registered for %s", e.Name, e.ConfigDir)
}

func (e *AlreadyRegisteredError) Unwrap() error { return ErrAlreadyRegistered }

// Entry links a project name to its .logaling directory
type Entry struct {
	Name      string `yaml:"name"`
	ConfigDir string `yaml:"config_dir"`
}

type indexFile struct {
	Projects []Entry `yaml:"projects"`
}

// Registry reads and writes the project index file
type Registry struct {
	path string
}

// New creates a registry stored in the given home
func New(h *home.Home) *Registry {
	return &Registry{path: h.RegistryFile()}
}

// Path returns the index file location
func (r *Registry) Path() string {
	return r.path
}

func (r *Registry) load() (*indexFile, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &indexFile{}, nil
		}
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var idx indexFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&idx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse registry %s: %w", r.path, err)
	}

	return &idx, nil
}

func (r *Registry) save(idx *indexFile) error {
	if idx.Projects == nil {
		idx.Projects = []Entry{}
	}

	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	return internal.WriteFileAtomic(r.path, data, 0644)
}

// Register links name to configDir. Registering the same pair again is a
// no-op and reports false.
func (r *Registry) Register(name, configDir string) (bool, error) {
	dir, err := canonical(configDir)
	if err != nil {
		return false, err
	}

	idx, err := r.load()
	if err != nil {
		return false, err
	}

	for _, e := range idx.Projects {
		if e.Name != name {
			continue
		}
		if e.ConfigDir == dir {
			log.Debug().Str("project", name).Msg("project already registered")
			return false, nil
		}
		return false, &AlreadyRegisteredError{Name: name, ConfigDir: e.ConfigDir}
	}

	idx.Projects = append(idx.Projects, Entry{Name: name, ConfigDir: dir})
	if err := r.save(idx); err != nil {
		return false, err
	}

	log.Debug().Str("project", name).Str("config_dir", dir).Msg("project registered")
	return true, nil
}

// Unregister removes name from the index
func (r *Registry) Unregister(name string) error {
	idx, err := r.load()
	if err != nil {
		return err
	}

	for i, e := range idx.Projects {
		if e.Name == name {
			idx.Projects = append(idx.Projects[:i], idx.Projects[i+1:]...)
			log.Debug().Str("project", name).Msg("project unregistered")
			return r.save(idx)
		}
	}

	return &NotRegisteredError{Name: name}
}

// List returns all registrations in registration order
func (r *Registry) List() ([]Entry, error) {
	idx, err := r.load()
	if err != nil {
		return nil, err
	}
	return idx.Projects, nil
}

// Lookup finds the registration for name
func (r *Registry) Lookup(name string) (Entry, bool, error) {
	entries, err := r.List()
	if err != nil {
		return Entry{}, false, err
	}

	for _, e := range entries {
		if e.Name == name {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

// canonical returns an absolute, symlink-free path when the directory exists
func canonical(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
