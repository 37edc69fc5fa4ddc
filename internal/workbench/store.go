package workbench

import "sync"

// Store is the persistence boundary: a flat key/value space of strings.
type Store interface {
	// Load returns the value for key. ok is false when the key was never saved.
	Load(key string) (value string, ok bool, err error)
	Save(key, value string) error
}

// Persisted keys. Each is written independently.
const (
	KeyTabs       = "tabs"
	KeyActiveTab  = "activeTab"
	KeyTheme      = "theme"
	KeyEditorMode = "editorMode"
)

// MemoryStore is an in-process Store. The zero value is an empty store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

// NewMemoryStore returns a MemoryStore seeded with values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := &MemoryStore{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStore) Load(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	m.writes++
	return nil
}

// Writes returns how many saves the store has seen.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
