// ABOUTME: In-memory slot used by the memory backend and by tests.
// ABOUTME: Values are copied on the way in and out.
package storage

import "sync"

// MemorySlot keeps slots in a map for the lifetime of the process.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ Slot = (*MemorySlot)(nil)

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemorySlot) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemorySlot) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemorySlot) Close() error {
	return nil
}
