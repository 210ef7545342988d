// Package assets handles texture loading and caching from directory search paths.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"
)

// ErrNotFound is returned when no search path contains the requested file.
var ErrNotFound = errors.New("asset not found")

type source struct {
	name string
	fsys fs.FS
}

// Manager loads files from a list of search paths.
type Manager struct {
	sources []source
	cache   *Cache
	mu      sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddPath adds a directory to the search paths.
// Paths are searched in reverse order (last added = highest priority).
func (m *Manager) AddPath(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding search path %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding search path %s: not a directory", dir)
	}
	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// AddFS adds a file system to the search paths under a display name.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.sources = append(m.sources, source{name: name, fsys: fsys})
	m.mu.Unlock()
}

// Load loads a file by slash-separated name.
func (m *Manager) Load(name string) ([]byte, error) {
	name = path.Clean(name)

	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.sources[i].fsys, name)
		if err == nil {
			m.cache.Set(name, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s from %s: %w", name, m.sources[i].name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// SearchPaths returns the display names of the search paths, lowest
// priority first.
func (m *Manager) SearchPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.name
	}
	return names
}

// CacheStats returns cache hit and miss counts.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops all search paths and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources = nil
	m.cache.Clear()
}
