package reports

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/janisto/legalhelp-api/internal/platform/pagination"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

// MemoryStore keeps reports in process. It backs STORE_BACKEND=memory and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []Report // newest first
	// Err, when set, fails every call.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, entries []tracker.Entry) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	received := time.Now().UTC()
	ids := make([]string, len(entries))
	added := make([]Report, len(entries))
	for i, e := range entries {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		ids[i] = id.String()
		added[i] = Report{ID: ids[i], Entry: e, ReceivedAt: received}
	}
	m.reports = append(m.reports, added...)
	slices.SortFunc(m.reports, func(a, b Report) int { return strings.Compare(b.ID, a.ID) })
	return ids, nil
}

func (m *MemoryStore) List(
	_ context.Context,
	filter Filter,
	cursor pagination.Cursor,
	limit int,
) (pagination.Page[Report], error) {
	if m.Err != nil {
		return pagination.Page[Report]{}, m.Err
	}
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []Report
	for _, r := range m.reports {
		if !filter.matches(r.Entry) {
			continue
		}
		if cursor.Value != "" && r.ID >= cursor.Value {
			continue
		}
		matched = append(matched, r)
	}
	return pagination.Window(matched[:min(len(matched), limit+1)], limit, CursorType, reportID), nil
}

// Len returns the number of stored reports.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reports)
}

var _ Service = (*MemoryStore)(nil)
