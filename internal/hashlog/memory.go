package hashlog

import (
	"sync"

	"otabot/internal/ota"
)

// MemoryHashLog keeps the log in memory. Useful for tests and for runs that
// must not touch the repository checkout.
// This implementation is safe for concurrent use.
type MemoryHashLog struct {
	mu       sync.RWMutex
	hashes   []string
	persists int
}

// NewMemoryHashLog creates a memory hash log seeded with hashes.
func NewMemoryHashLog(hashes ...string) *MemoryHashLog {
	return &MemoryHashLog{hashes: append([]string(nil), hashes...)}
}

func (m *MemoryHashLog) Load() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.hashes...), nil
}

func (m *MemoryHashLog) Persist(hashes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashes = append([]string(nil), hashes...)
	m.persists++
	return nil
}

// Persists returns how many times Persist was called.
func (m *MemoryHashLog) Persists() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.persists
}

// Compile-time check that MemoryHashLog implements ota.HashLog interface
var _ ota.HashLog = (*MemoryHashLog)(nil)
