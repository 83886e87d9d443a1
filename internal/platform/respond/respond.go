// Package respond renders transport errors as RFC 9457 problems and domain
// results as response envelopes, in JSON or CBOR.
package respond

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/logging"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

const (
	msgNotFound         = "resource not found"
	msgInternalError    = "internal server error"
	errorModelSchemaRef = "/schemas/ErrorModel.json"
)

type problem struct {
	Schema string `json:"$schema,omitempty"`
	Title  string `json:"title,omitempty"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NotFoundHandler renders unmatched routes as a 404 problem.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, msgNotFound)
	}
}

// MethodNotAllowedHandler renders a 405 problem with an Allow header.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		writeProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

// Recoverer turns panics into a 500 problem, logs the stack and reports a
// critical error to the process tracker. http.ErrAbortHandler is re-panicked.
// Nothing is written if the handler already started the response.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && err == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				ctx := r.Context()
				logging.LogError(ctx, "panic recovered", err, zap.ByteString("stack", debug.Stack()))
				var metadata map[string]any
				if id := logging.CorrelationID(ctx); id != "" {
					metadata = map[string]any{"correlationId": id}
				}
				tracker.Default().LogError(ctx, err, "panic in "+r.Method+" "+r.URL.Path, metadata,
					tracker.SeverityCritical, tracker.CategoryJavaScript)
				if !rw.wroteHeader {
					writeProblem(rw, r, http.StatusInternalServerError, msgInternalError)
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	schema := schemaURL(r)
	ensureVary(w.Header(), "Origin", "Accept")
	w.Header().Set("Link", "<"+schema+">; rel=\"describedBy\"")
	body := problem{
		Schema: schema,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
	ct := mediaProblemJSON
	if selectFormat(r.Header.Get("Accept")) {
		ct = mediaProblemCBOR
	}
	if err := encode(w, ct, status, body); err != nil {
		logging.LogError(r.Context(), "failed to render problem", err, zap.Int("status", status))
	}
}

func schemaURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	if r.Host == "" {
		return errorModelSchemaRef
	}
	return scheme + "://" + r.Host + errorModelSchemaRef
}

func encode(w http.ResponseWriter, contentType string, status int, body any) error {
	var buf bytes.Buffer
	if strings.HasSuffix(contentType, "cbor") {
		payload, err := cbor.Marshal(body)
		if err != nil {
			return err
		}
		buf.Write(payload)
	} else {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return err
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// allowedMethods asks chi which methods match the current path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	path := rctx.RoutePath
	if path == "" {
		path = r.URL.RawPath
		if path == "" {
			path = r.URL.Path
		}
		if path == "" {
			path = "/"
		}
	}
	var allowed []string
	for _, m := range []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	} {
		if rctx.Routes.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// EnvelopeError is a failed envelope usable as a huma error return.
type EnvelopeError struct {
	Body   api.Response[any]
	status int
}

// Failure classifies v and returns it as an envelope error with the status of
// its code.
func Failure(ctx context.Context, v any) *EnvelopeError {
	resp := api.HandleError(ctx, v)
	return &EnvelopeError{Body: resp, status: resp.Error.GetStatus()}
}

func (e *EnvelopeError) Error() string {
	return e.Body.Error.Error()
}

// GetStatus implements huma.StatusError.
func (e *EnvelopeError) GetStatus() int {
	return e.status
}

// MarshalJSON renders the envelope only.
func (e *EnvelopeError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Body)
}

// MarshalCBOR renders the envelope only.
func (e *EnvelopeError) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(e.Body)
}

var _ huma.StatusError = (*EnvelopeError)(nil)

// WriteResponse writes an envelope outside of huma, negotiating JSON or CBOR.
func WriteResponse[T any](w http.ResponseWriter, r *http.Request, status int, resp api.Response[T]) {
	ct := mediaJSON
	ensureVary(w.Header(), "Accept")
	if selectFormat(r.Header.Get("Accept")) {
		ct = mediaCBOR
	}
	if err := encode(w, ct, status, resp); err != nil {
		logging.LogError(r.Context(), "failed to render envelope", err, zap.Int("status", status))
	}
}

// WriteFailure classifies v and writes the failed envelope.
func WriteFailure(w http.ResponseWriter, r *http.Request, v any) {
	resp := api.HandleError(r.Context(), v)
	WriteResponse(w, r, resp.Error.GetStatus(), resp)
}
