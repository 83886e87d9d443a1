// Package collector receives error report batches from trackers and lists
// stored reports.
package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/logging"
	"github.com/janisto/legalhelp-api/internal/platform/pagination"
	"github.com/janisto/legalhelp-api/internal/platform/respond"
	"github.com/janisto/legalhelp-api/internal/service/reports"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

// Register adds the collector endpoints. prefix is the API mount path used in
// Link headers.
func Register(hapi huma.API, svc reports.Service, prefix string) {
	huma.Register(hapi, huma.Operation{
		OperationID:   "submit-errors",
		Method:        http.MethodPost,
		Path:          "/errors",
		Summary:       "Submit error reports",
		Description:   "Stores a batch of error entries sent by an error tracker.",
		Tags:          []string{"Errors"},
		DefaultStatus: http.StatusAccepted,
		MaxBodyBytes:  1 << 20,
	}, func(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
		entries := input.Body.Errors
		ids, err := svc.Save(ctx, entries)
		if err != nil {
			return nil, respond.Failure(ctx, fmt.Errorf("%w: save reports: %w", api.ErrDatabase, err))
		}
		logging.LogInfo(ctx, "error reports stored", zap.Int("count", len(ids)), zap.String("sessionId", entries[0].SessionID))
		return &SubmitOutput{Body: api.Success(Accepted{Accepted: len(ids), IDs: ids})}, nil
	})

	huma.Register(hapi, huma.Operation{
		OperationID: "list-errors",
		Method:      http.MethodGet,
		Path:        "/errors",
		Summary:     "List error reports",
		Description: "Lists stored error reports, newest first, with cursor pagination.",
		Tags:        []string{"Errors"},
		Security:    []map[string][]string{{"bearerAuth": {}}},
	}, func(ctx context.Context, input *ListInput) (*ListOutput, error) {
		cursor, err := pagination.DecodeCursor(input.Cursor, reports.CursorType)
		if err != nil {
			return nil, respond.Failure(ctx, api.NewAPIError(
				"Invalid cursor", api.CodeInvalidInput, http.StatusBadRequest, map[string]any{"field": "cursor"}))
		}
		filter := reports.Filter{
			Category: tracker.Category(input.Category),
			Severity: tracker.Severity(input.Severity),
		}
		page, err := svc.List(ctx, filter, cursor, input.PageSize())
		if err != nil {
			return nil, respond.Failure(ctx, fmt.Errorf("%w: list reports: %w", api.ErrDatabase, err))
		}

		items := make([]Report, len(page.Items))
		for i, r := range page.Items {
			items[i] = toReport(r)
		}
		return &ListOutput{
			Link: pagination.BuildLinkHeader(prefix+"/errors", listQuery(input), page.Next),
			Body: api.Success(items),
		}, nil
	})
}

func listQuery(in *ListInput) url.Values {
	q := url.Values{}
	if in.Category != "" {
		q.Set("category", in.Category)
	}
	if in.Severity != "" {
		q.Set("severity", in.Severity)
	}
	if in.Limit > 0 {
		q.Set("limit", strconv.Itoa(in.Limit))
	}
	return q
}
