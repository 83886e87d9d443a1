package collector

import (
	"github.com/janisto/legalhelp-api/internal/platform/timeutil"
	"github.com/janisto/legalhelp-api/internal/service/reports"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

// Accepted acknowledges a stored batch.
type Accepted struct {
	Accepted int      `json:"accepted" doc:"Number of stored entries" example:"2"`
	IDs      []string `json:"ids"      doc:"Report IDs in input order"`
}

// Report is a stored entry as listed to operators.
type Report struct {
	ID         string        `json:"id"         doc:"Report ID (UUIDv7)"`
	ReceivedAt timeutil.Time `json:"receivedAt" doc:"When the collector stored the entry"`
	tracker.Entry
}

func toReport(r reports.Report) Report {
	return Report{ID: r.ID, ReceivedAt: timeutil.NewTime(r.ReceivedAt), Entry: r.Entry}
}
