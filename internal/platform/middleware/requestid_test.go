package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func captureRequestID(t *testing.T, header string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(chimiddleware.RequestIDHeader, header)
	}
	var captured string
	RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	})).ServeHTTP(rec, req)
	return captured, rec
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	id, rec := captureRequestID(t, "")
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("request ID %q is not a UUID: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
	if got := rec.Header().Get(chimiddleware.RequestIDHeader); got != id {
		t.Fatalf("expected response header %q, got %q", id, got)
	}
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	id, rec := captureRequestID(t, "client-req-42")
	if id != "client-req-42" {
		t.Fatalf("expected incoming ID to be reused, got %q", id)
	}
	if rec.Header().Get(chimiddleware.RequestIDHeader) != "client-req-42" {
		t.Fatal("expected incoming ID to be echoed")
	}
}

func TestRequestIDRejectsUnsafeHeader(t *testing.T) {
	for _, bad := range []string{strings.Repeat("a", maxRequestIDLength+1), "line\x01break", "caf\xc3\xa9"} {
		id, _ := captureRequestID(t, bad)
		if id == bad {
			t.Fatalf("expected %q to be replaced", bad)
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("replacement %q is not a UUID", id)
		}
	}
}
