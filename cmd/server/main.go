package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/janisto/legalhelp-api/internal/http/health"
	"github.com/janisto/legalhelp-api/internal/http/v1/routes"
	"github.com/janisto/legalhelp-api/internal/platform/auth"
	"github.com/janisto/legalhelp-api/internal/platform/config"
	"github.com/janisto/legalhelp-api/internal/platform/firebase"
	"github.com/janisto/legalhelp-api/internal/platform/logging"
	"github.com/janisto/legalhelp-api/internal/platform/metrics"
	appmiddleware "github.com/janisto/legalhelp-api/internal/platform/middleware"
	"github.com/janisto/legalhelp-api/internal/platform/respond"
	"github.com/janisto/legalhelp-api/internal/platform/retry"
	"github.com/janisto/legalhelp-api/internal/service/registration"
	"github.com/janisto/legalhelp-api/internal/service/reports"
	"github.com/janisto/legalhelp-api/internal/tracker"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	apiPrefix = "/v1"
	docsPath  = "/api-docs"
)

func main() {
	ctx := context.Background()
	defer func() {
		if err := logging.Sync(); err != nil {
			logging.LogError(ctx, "logger sync error", err)
		}
	}()

	cfg, err := config.Load(".env")
	if err != nil {
		logging.LogError(ctx, "invalid configuration", err)
		os.Exit(1)
	}
	logging.Configure(logging.Options{Development: cfg.Development(), ProjectID: cfg.ProjectID})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, nil); err != nil {
		logging.LogError(context.Background(), "server failed", err)
		os.Exit(1)
	}
	logging.LogInfo(context.Background(), "server exited")
}

// backends are the storage and identity collaborators chosen by STORE_BACKEND.
type backends struct {
	verifier      auth.Verifier
	reports       reports.Service
	registrations registration.Service
	checks        map[string]health.Check
	close         func() error
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{
		verifier:      &auth.MockVerifier{},
		reports:       reports.NewMemoryStore(),
		registrations: registration.NewMemoryStore(),
		close:         func() error { return nil },
	}
	if cfg.Store != config.StoreFirestore && cfg.ProjectID == "" {
		logging.LogWarn(ctx, "no Firebase project configured; bearer tokens are rejected")
		return b, nil
	}

	clients, err := firebase.Open(ctx, cfg.Firebase())
	if err != nil {
		return nil, err
	}
	b.verifier = auth.NewFirebaseVerifier(clients.Auth)
	b.close = clients.Close
	if cfg.Store == config.StoreFirestore {
		b.reports = reports.NewFirestoreStore(clients.Firestore)
		b.registrations = registration.NewFirestoreStore(clients.Firestore)
		b.checks = map[string]health.Check{
			"firestore": func(ctx context.Context) error {
				_, err := clients.Firestore.Collections(ctx).Next()
				if errors.Is(err, iterator.Done) {
					return nil
				}
				return err
			},
		}
	}
	return b, nil
}

func newTracker(cfg config.Config, m *metrics.Metrics) *tracker.Tracker {
	return tracker.New(cfg.Tracker(),
		tracker.WithUserResolver(auth.UserID),
		tracker.WithTelemetry(m),
	)
}

// newRouter builds the middleware stack, the plain routes and the v1 API.
func newRouter(cfg config.Config, deps routes.Deps, m *metrics.Metrics, checks map[string]health.Check) (chi.Router, huma.API) {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(apiPrefix+docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.CORSOrigins...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; only deploy behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		m.Middleware(),
		logging.RequestLogger(),
		logging.AccessLogger(),
		tracker.Middleware(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(Version, checks))
	router.Handle("/metrics", m.Handler())

	var hapi huma.API
	router.Route(apiPrefix, func(r chi.Router) {
		hcfg := huma.DefaultConfig("Legal Help API", Version)
		hcfg.DocsPath = docsPath
		hcfg.Servers = []*huma.Server{{URL: apiPrefix}}
		hapi = humachi.New(r, hcfg)
		hapi.OpenAPI().OnAddOperation = append(hapi.OpenAPI().OnAddOperation, addCBORContent)
		routes.Register(hapi, deps)
	})
	return router, hapi
}

// addCBORContent mirrors every JSON request and response body as CBOR in the
// OpenAPI document.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if c, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = c
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if c, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = c
		}
	}
}

func newHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}

// run serves until ctx is cancelled, then drains the server and the error
// tracker. Backend setup is retried. ready, when set, receives the bound
// address.
func run(ctx context.Context, cfg config.Config, ready chan<- string) error {
	m := metrics.New()
	trk := newTracker(cfg, m)
	tracker.SetDefault(trk)
	trk.Start(ctx)

	abort := func(err error) error {
		_ = trk.Close(context.WithoutCancel(ctx))
		return err
	}

	b, err := retry.Do(ctx, func(ctx context.Context) (*backends, error) {
		return openBackends(ctx, cfg)
	}, retry.WithReporter(trk))
	if err != nil {
		return abort(err)
	}
	defer func() {
		if err := b.close(); err != nil {
			logging.LogError(context.Background(), "backend close error", err)
		}
	}()

	router, _ := newRouter(cfg, routes.Deps{
		Verifier:      b.verifier,
		Tracker:       trk,
		Reports:       b.reports,
		Registrations: b.registrations,
	}, m, b.checks)
	srv := newHTTPServer(cfg.Port, router)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return abort(err)
	}
	logging.LogInfo(ctx, "server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("store", cfg.Store),
		zap.String("trackerSession", trk.SessionID()),
	)
	if ready != nil {
		ready <- ln.Addr().String()
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return abort(err)
	case <-ctx.Done():
		logging.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(shutdownCtx, "server shutdown error", err)
	}
	if err := trk.Close(shutdownCtx); err != nil {
		logging.LogWarn(shutdownCtx, "error reports not delivered at shutdown",
			zap.Int("pending", trk.Pending()), zap.Error(err))
	}
	return nil
}
