package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/legalhelp-api/internal/api"
)

type envelopeBody struct {
	Success bool          `json:"success"`
	Data    any           `json:"data"`
	Error   *api.APIError `json:"error"`
}

func TestFailureFromHumaHandler(t *testing.T) {
	router := chi.NewRouter()
	humaAPI := humachi.New(router, huma.DefaultConfig("Test", "test"))
	huma.Get(humaAPI, "/db", func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		return nil, Failure(ctx, errors.New("PGRST301: connection refused"))
	})

	req := httptest.NewRequest(http.MethodGet, "/db", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body envelopeBody
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, resp.Body.String())
	}
	if body.Success || body.Error == nil || body.Error.Code != api.CodeDatabaseError {
		t.Fatalf("unexpected envelope %+v", body)
	}
	if body.Error.Message != api.Message(api.CodeDatabaseError) {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}

func TestFailureKeepsAPIErrorStatus(t *testing.T) {
	err := Failure(context.Background(), api.NewCodeError(api.CodeForbidden, nil))
	if err.GetStatus() != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", err.GetStatus())
	}
	if err.Error() != api.Message(api.CodeForbidden) {
		t.Fatalf("unexpected Error(): %q", err.Error())
	}
}

func TestWriteResponseJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	WriteResponse(resp, req, http.StatusAccepted, api.Success(map[string]int{"accepted": 2}))

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Success || body.Data["accepted"] != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWriteFailureCBOR(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	WriteFailure(resp, req, errors.New("fetch failed"))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/cbor" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body envelopeBody
	if err := cbor.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Success || body.Error == nil || body.Error.Code != api.CodeExternalServiceError {
		t.Fatalf("unexpected envelope %+v", body)
	}
}
