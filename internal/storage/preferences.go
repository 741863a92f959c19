package storage

import (
	"context"
	"sync"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// PreferenceStore is a durable key-value store. Get returns
// entities.ErrPreferenceNotFound for missing keys.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryPreferences keeps preferences in process memory.
type MemoryPreferences struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryPreferences creates an empty in-memory preference store.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{
		values: make(map[string]string),
	}
}

func (m *MemoryPreferences) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &entities.StorageError{Op: "get", Key: key, Err: err}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", entities.ErrPreferenceNotFound
	}
	return v, nil
}

func (m *MemoryPreferences) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return &entities.StorageError{Op: "set", Key: key, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// Scoped returns a view of store whose keys are prefixed with scope.
func Scoped(store PreferenceStore, scope string) PreferenceStore {
	return scopedStore{store: store, prefix: scope + "/"}
}

type scopedStore struct {
	store  PreferenceStore
	prefix string
}

func (s scopedStore) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s scopedStore) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.prefix+key, value)
}
