package registration

import (
	"context"
	"sync"
)

// MemoryStore keeps registrations in process for STORE_BACKEND=memory and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Registration
	// Err, when set, fails every call.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Registration)}
}

func (m *MemoryStore) Create(ctx context.Context, userID string, params CreateParams) (*Registration, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[userID]; ok {
		audit(ctx, "create", userID, ErrAlreadyExists)
		return nil, ErrAlreadyExists
	}
	r := newRegistration(userID, params, stamp())
	m.items[userID] = *r
	audit(ctx, "create", userID, nil)
	return r, nil
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*Registration, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.items[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) mutate(ctx context.Context, action, userID string, change func(*Registration) error) (*Registration, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[userID]
	if !ok {
		audit(ctx, action, userID, ErrNotFound)
		return nil, ErrNotFound
	}
	if err := change(&r); err != nil {
		audit(ctx, action, userID, err)
		return nil, err
	}
	m.items[userID] = r
	audit(ctx, action, userID, nil)
	return &r, nil
}

func (m *MemoryStore) Update(ctx context.Context, userID string, params UpdateParams) (*Registration, error) {
	return m.mutate(ctx, "update", userID, func(r *Registration) error {
		r.apply(params, stamp())
		return nil
	})
}

func (m *MemoryStore) Complete(ctx context.Context, userID string) (*Registration, error) {
	return m.mutate(ctx, "complete", userID, func(r *Registration) error {
		return r.complete(stamp())
	})
}

func (m *MemoryStore) Delete(ctx context.Context, userID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[userID]; !ok {
		audit(ctx, "delete", userID, ErrNotFound)
		return ErrNotFound
	}
	delete(m.items, userID)
	audit(ctx, "delete", userID, nil)
	return nil
}

var _ Service = (*MemoryStore)(nil)
