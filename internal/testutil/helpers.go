package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/loga/internal/home"
)

// CreateTestHome creates an initialised loga home in a temporary directory
func CreateTestHome(t *testing.T) *home.Home {
	t.Helper()

	h := home.New(filepath.Join(t.TempDir(), "logaling.d"))
	if err := h.Init(); err != nil {
		t.Fatalf("Failed to init test home: %v", err)
	}

	return h
}

// CreateTestProject creates an empty project directory and returns its path
func CreateTestProject(t *testing.T, name string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create project directory %s: %v", dir, err)
	}

	// Resolve symlinked temp dirs so paths compare equal to the registry's
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return dir
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("File content mismatch in %s\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// SnapshotTree records the content of every file below dir
func SnapshotTree(t *testing.T, dir string) map[string]string {
	t.Helper()

	snapshot := make(map[string]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			snapshot[relPath+"/"] = ""
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snapshot[relPath] = string(data)
		return nil
	})

	if err != nil {
		t.Fatalf("Failed to snapshot %s: %v", dir, err)
	}
	return snapshot
}

// AssertTreeUnchanged compares dir against an earlier snapshot
func AssertTreeUnchanged(t *testing.T, dir string, before map[string]string) {
	t.Helper()

	after := SnapshotTree(t, dir)
	for path, content := range before {
		got, ok := after[path]
		if !ok {
			t.Errorf("File removed: %s", path)
			continue
		}
		if got != content {
			t.Errorf("File changed: %s", path)
		}
	}
	for path := range after {
		if _, ok := before[path]; !ok {
			t.Errorf("File added: %s", path)
		}
	}
}
