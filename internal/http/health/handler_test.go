package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/janisto/legalhelp-api/internal/api"
)

func serve(h http.Handler, accept string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthy(t *testing.T) {
	rec := serve(Handler("1.2.3", map[string]Check{
		"firestore": func(context.Context) error { return nil },
	}), "")
	var env api.Response[Response]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || !env.Success || env.Data.Status != "healthy" || env.Data.Version != "1.2.3" {
		t.Fatalf("unexpected response %d %+v", rec.Code, env)
	}
	if env.Data.Checks["firestore"] != "ok" {
		t.Fatalf("unexpected checks %v", env.Data.Checks)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected Cache-Control: no-store")
	}
}

func TestHealthyCBOR(t *testing.T) {
	rec := serve(Handler("dev", nil), "application/cbor")
	if ct := rec.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("expected application/cbor, got %s", ct)
	}
	var env api.Response[Response]
	if err := cbor.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data == nil || env.Data.Status != "healthy" || env.Data.Checks != nil {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestDegradedWhenCheckFails(t *testing.T) {
	rec := serve(Handler("dev", map[string]Check{
		"firestore": func(context.Context) error { return errors.New("unavailable") },
		"tracker":   func(context.Context) error { return nil },
	}), "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var env struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Success || env.Error.Code != string(api.CodeExternalServiceError) || env.Error.Details.Status != "degraded" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if env.Error.Details.Checks["firestore"] != "unavailable" || env.Error.Details.Checks["tracker"] != "ok" {
		t.Fatalf("unexpected checks %v", env.Error.Details.Checks)
	}
}
