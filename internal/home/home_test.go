package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvHome, tmpDir)

	h, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if h.Dir != tmpDir {
		t.Errorf("Expected home %s, got %s", tmpDir, h.Dir)
	}
}

func TestDefault_UserHome(t *testing.T) {
	t.Setenv(EnvHome, "")

	h, err := Default()
	if err != nil {
		t.Skipf("no user home directory: %v", err)
	}
	if filepath.Base(h.Dir) != defaultDirName {
		t.Errorf("Expected default dir name %s, got %s", defaultDirName, h.Dir)
	}
}

func TestInit(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "home"))

	// Twice, to check it is idempotent
	for i := 0; i < 2; i++ {
		if err := h.Init(); err != nil {
			t.Fatalf("Init failed on iteration %d: %v", i, err)
		}
	}

	for _, dir := range []string{h.ProjectsDir(), h.GlossaryRoot(), filepath.Dir(h.IndexPath()), h.ArchiveDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("Expected %s to exist: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("Expected %s to be a directory", dir)
		}
	}
}

func TestPaths(t *testing.T) {
	h := New("/tmp/loga")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"ConfigFile", h.ConfigFile(), "/tmp/loga/config"},
		{"RegistryFile", h.RegistryFile(), "/tmp/loga/projects/index.yml"},
		{"GlossaryRoot", h.GlossaryRoot(), "/tmp/loga/glossaries"},
		{"IndexPath", h.IndexPath(), "/tmp/loga/db/index.sqlite"},
		{"ArchiveDir", h.ArchiveDir(), "/tmp/loga/archive"},
		{"MarkerPath", MarkerPath("/work/proj"), "/work/proj/.logaling"},
		{"ProjectConfigFile", ProjectConfigFile("/work/proj"), "/work/proj/.logaling/config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != filepath.FromSlash(tt.expected) {
				t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.expected)
			}
		})
	}
}
