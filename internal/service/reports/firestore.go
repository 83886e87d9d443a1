package reports

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/janisto/legalhelp-api/internal/platform/logging"
	"github.com/janisto/legalhelp-api/internal/platform/pagination"
	"github.com/janisto/legalhelp-api/internal/platform/timeutil"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

const reportsCollection = "error_reports"

type firestoreReport struct {
	Message    string         `firestore:"message"`
	Stack      string         `firestore:"stack,omitempty"`
	Context    string         `firestore:"context,omitempty"`
	Metadata   map[string]any `firestore:"metadata,omitempty"`
	Timestamp  time.Time      `firestore:"timestamp"`
	URL        string         `firestore:"url"`
	UserAgent  string         `firestore:"user_agent"`
	UserID     string         `firestore:"user_id,omitempty"`
	SessionID  string         `firestore:"session_id"`
	Severity   string         `firestore:"severity"`
	Category   string         `firestore:"category"`
	ReceivedAt time.Time      `firestore:"received_at"`
}

func toFirestore(e tracker.Entry, received time.Time) firestoreReport {
	return firestoreReport{
		Message:    e.Message,
		Stack:      e.Stack,
		Context:    e.Context,
		Metadata:   e.Metadata,
		Timestamp:  e.Timestamp.UTC(),
		URL:        e.URL,
		UserAgent:  e.UserAgent,
		UserID:     e.UserID,
		SessionID:  e.SessionID,
		Severity:   string(e.Severity),
		Category:   string(e.Category),
		ReceivedAt: received,
	}
}

func (fr firestoreReport) report(id string) Report {
	return Report{
		ID: id,
		Entry: tracker.Entry{
			Message:   fr.Message,
			Stack:     fr.Stack,
			Context:   fr.Context,
			Metadata:  fr.Metadata,
			Timestamp: timeutil.NewTime(fr.Timestamp),
			URL:       fr.URL,
			UserAgent: fr.UserAgent,
			UserID:    fr.UserID,
			SessionID: fr.SessionID,
			Severity:  tracker.Severity(fr.Severity),
			Category:  tracker.Category(fr.Category),
		},
		ReceivedAt: fr.ReceivedAt,
	}
}

// FirestoreStore keeps reports in the error_reports collection.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Save writes the batch with a BulkWriter and returns the new IDs in input order.
func (s *FirestoreStore) Save(ctx context.Context, entries []tracker.Entry) ([]string, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}
	received := time.Now().UTC()
	col := s.client.Collection(reportsCollection)
	bw := s.client.BulkWriter(ctx)

	ids := make([]string, len(entries))
	jobs := make([]*firestore.BulkWriterJob, len(entries))
	for i, e := range entries {
		id, err := uuid.NewV7()
		if err != nil {
			bw.End()
			return nil, err
		}
		ids[i] = id.String()
		if jobs[i], err = bw.Create(col.Doc(ids[i]), toFirestore(e, received)); err != nil {
			bw.End()
			return nil, fmt.Errorf("queue report: %w", err)
		}
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			logging.LogWarn(ctx, "report write failed", zap.String("reportId", ids[i]), zap.Error(err))
			return nil, fmt.Errorf("write report %s: %w", ids[i], err)
		}
	}
	return ids, nil
}

// List pages through reports ordered by document ID, newest first.
func (s *FirestoreStore) List(
	ctx context.Context,
	filter Filter,
	cursor pagination.Cursor,
	limit int,
) (pagination.Page[Report], error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	q := s.client.Collection(reportsCollection).Query
	if filter.Category != "" {
		q = q.Where("category", "==", string(filter.Category))
	}
	if filter.Severity != "" {
		q = q.Where("severity", "==", string(filter.Severity))
	}
	q = q.OrderBy(firestore.DocumentID, firestore.Desc)
	if cursor.Value != "" {
		q = q.StartAfter(cursor.Value)
	}

	iter := q.Limit(limit + 1).Documents(ctx)
	defer iter.Stop()
	var out []Report
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return pagination.Page[Report]{}, err
		}
		var fr firestoreReport
		if err := doc.DataTo(&fr); err != nil {
			return pagination.Page[Report]{}, err
		}
		out = append(out, fr.report(doc.Ref.ID))
	}
	return pagination.Window(out, limit, CursorType, reportID), nil
}

var _ Service = (*FirestoreStore)(nil)
