package testutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"otabot/internal/ota"
)

// MockFilesystemManager is an in-memory filesystem for testing.
// Paths are cleaned but otherwise used verbatim as keys.
type MockFilesystemManager struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string

	// FailWrites makes WriteFile return an error for the listed paths.
	FailWrites map[string]bool
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:      make(map[string][]byte),
		FailWrites: make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = content
}

// Exists reports whether path is present.
func (m *MockFilesystemManager) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// Contents returns the file at path, or "" and false when missing.
func (m *MockFilesystemManager) Contents(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	return string(data), ok
}

// Removed returns the paths passed to Remove, in order.
func (m *MockFilesystemManager) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.removed...)
}

func (m *MockFilesystemManager) ListFiles(dir, ext string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = filepath.Clean(dir)
	found := false
	var names []string
	for p := range m.files {
		if filepath.Dir(p) != dir {
			continue
		}
		found = true
		if name := filepath.Base(p); strings.HasSuffix(name, ext) {
			names = append(names, name)
		}
	}
	if !found {
		return nil, fmt.Errorf("reading directory %s: %w", dir, fs.ErrNotExist)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockFilesystemManager) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("reading %s: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *MockFilesystemManager) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites[path] {
		return fmt.Errorf("writing %s: injected failure", path)
	}
	m.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

func (m *MockFilesystemManager) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, path)
	delete(m.files, filepath.Clean(path))
	return nil
}

// Compile-time check
var _ ota.FilesystemManager = (*MockFilesystemManager)(nil)
