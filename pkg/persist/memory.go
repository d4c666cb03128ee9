package persist

import (
	"context"
	"sort"
	"sync"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

// MemoryStorage keeps slots in process memory.
// It is used by tests and by ephemeral sessions that should not outlive the process.
//
// MemoryStorage 将槽保存在进程内存中。
// 用于测试以及不需要在进程退出后保留的临时会话。
type MemoryStorage struct {
	data   map[string][]byte
	mu     sync.RWMutex
	writes int
	closed bool
}

// NewMemoryStorage creates an empty MemoryStorage.
//
// NewMemoryStorage 创建一个空的MemoryStorage。
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under name.
func (m *MemoryStorage) Get(ctx context.Context, name string) ([]byte, bool, error) {
	if name == "" {
		return nil, false, verrors.ErrSlotNameEmpty
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, verrors.NewSlotError(name, verrors.ErrClosed)
	}
	blob, ok := m.data[name]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

// Set stores a copy of blob under name.
func (m *MemoryStorage) Set(ctx context.Context, name string, blob []byte) error {
	if name == "" {
		return verrors.ErrSlotNameEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return verrors.NewSlotError(name, verrors.ErrClosed)
	}
	m.data[name] = append([]byte(nil), blob...)
	m.writes++
	return nil
}

// Delete removes the slot.
func (m *MemoryStorage) Delete(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, verrors.NewSlotError(name, verrors.ErrClosed)
	}
	_, ok := m.data[name]
	delete(m.data, name)
	return ok, nil
}

// Names returns the stored slot names in sorted order.
func (m *MemoryStorage) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Writes returns how many Set calls succeeded.
func (m *MemoryStorage) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Close marks the storage closed and drops its data.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}
