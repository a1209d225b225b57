package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvHome overrides the default home directory
	EnvHome = "LOGALING_HOME"

	// MarkerDir is the project-local directory created by 'loga new'
	MarkerDir = ".logaling"

	// ConfigFileName is the name of both the project and the global config file
	ConfigFileName = "config"

	defaultDirName = ".logaling.d"
)

// Home holds the root of the loga state directory
type Home struct {
	Dir string
}

// New creates a Home rooted at dir
func New(dir string) *Home {
	return &Home{Dir: dir}
}

// Default resolves the home directory from $LOGALING_HOME or ~/.logaling.d
func Default() (*Home, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return New(dir), nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return New(filepath.Join(userHome, defaultDirName)), nil
}

// Init creates the directory layout. Safe to call repeatedly.
func (h *Home) Init() error {
	dirs := []string{
		h.ProjectsDir(),
		h.GlossaryRoot(),
		filepath.Dir(h.IndexPath()),
		h.ArchiveDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return nil
}

// ConfigFile is the global config file
func (h *Home) ConfigFile() string {
	return filepath.Join(h.Dir, ConfigFileName)
}

// ProjectsDir holds the project registry
func (h *Home) ProjectsDir() string {
	return filepath.Join(h.Dir, "projects")
}

// RegistryFile is the project registry index
func (h *Home) RegistryFile() string {
	return filepath.Join(h.ProjectsDir(), "index.yml")
}

// GlossaryRoot holds one directory per glossary name
func (h *Home) GlossaryRoot() string {
	return filepath.Join(h.Dir, "glossaries")
}

// IndexPath is the SQLite lookup index
func (h *Home) IndexPath() string {
	return filepath.Join(h.Dir, "db", "index.sqlite")
}

// ArchiveDir receives archived glossary files
func (h *Home) ArchiveDir() string {
	return filepath.Join(h.Dir, "archive")
}

// MarkerPath returns the project marker directory inside projectDir
func MarkerPath(projectDir string) string {
	return filepath.Join(projectDir, MarkerDir)
}

// ProjectConfigFile returns the config file inside the project marker directory
func ProjectConfigFile(projectDir string) string {
	return filepath.Join(MarkerPath(projectDir), ConfigFileName)
}
