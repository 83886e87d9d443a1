// Package reports stores error report batches received by the collector.
package reports

import (
	"context"
	"errors"
	"time"

	"github.com/janisto/legalhelp-api/internal/platform/pagination"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

// CursorType tags pagination cursors issued for report listings.
const CursorType = "report"

// ErrEmptyBatch is returned when Save receives no entries.
var ErrEmptyBatch = errors.New("empty report batch")

// Report is a stored entry. IDs are UUIDv7, so ID order is arrival order.
type Report struct {
	ID         string
	Entry      tracker.Entry
	ReceivedAt time.Time
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Category tracker.Category
	Severity tracker.Severity
}

func (f Filter) matches(e tracker.Entry) bool {
	return (f.Category == "" || e.Category == f.Category) &&
		(f.Severity == "" || e.Severity == f.Severity)
}

// Service persists and lists reports, newest first.
type Service interface {
	Save(ctx context.Context, entries []tracker.Entry) ([]string, error)
	List(ctx context.Context, filter Filter, cursor pagination.Cursor, limit int) (pagination.Page[Report], error)
}

func reportID(r Report) string { return r.ID }
