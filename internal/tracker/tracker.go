// Package tracker batches error reports and delivers them to a collector.
package tracker

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/janisto/legalhelp-api/internal/api"
	"github.com/janisto/legalhelp-api/internal/platform/logging"
	"github.com/janisto/legalhelp-api/internal/platform/timeutil"
)

// Telemetry mirrors reports to an analytics sink. Calls are best effort.
type Telemetry interface {
	Event(ctx context.Context, name string, params map[string]any)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithTransport replaces the collector transport.
func WithTransport(tr Transport) Option {
	return func(t *Tracker) {
		if tr != nil {
			t.transport = tr
		}
	}
}

// WithUserResolver sets how the current user is found.
func WithUserResolver(users UserResolver) Option {
	return func(t *Tracker) {
		t.ambient = contextAmbient(users)
	}
}

// WithAmbient replaces ambient resolution entirely.
func WithAmbient(a Ambient) Option {
	return func(t *Tracker) {
		if a != nil {
			t.ambient = a
		}
	}
}

// WithTelemetry sets the analytics sink.
func WithTelemetry(tel Telemetry) Option {
	return func(t *Tracker) {
		t.telemetry = tel
	}
}

// Tracker queues error reports and flushes them in batches.
type Tracker struct {
	cfg       Config
	transport Transport
	ambient   Ambient
	telemetry Telemetry
	sessionID string
	now       func() time.Time

	mu    sync.Mutex
	queue []Entry

	// flushMu serializes deliveries so a failed batch is requeued before the
	// next one is taken.
	flushMu sync.Mutex
	// scheduled is set while an async flush waits to take the queue.
	scheduled atomic.Bool
	pending   sync.WaitGroup
	events    sync.WaitGroup
	// background bounds async flushes; Close cancels it when its own context
	// ends first.
	background context.Context
	abandon    context.CancelFunc

	startOnce sync.Once
	started   atomic.Bool
	stopOnce  sync.Once
	stop      chan struct{}
	loopDone  chan struct{}
}

// New creates a Tracker. Without an endpoint or transport, batches are discarded.
func New(cfg Config, opts ...Option) *Tracker {
	cfg = cfg.withDefaults()
	t := &Tracker{
		cfg:       cfg,
		ambient:   contextAmbient(nil),
		sessionID: uuid.NewString(),
		now:       time.Now,
		stop:      make(chan struct{}),
		loopDone:  make(chan struct{}),
	}
	t.background, t.abandon = context.WithCancel(context.Background())
	if cfg.Endpoint != "" {
		t.transport = NewHTTPTransport(cfg)
	} else {
		t.transport = discardTransport{}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SessionID identifies this tracker's reports for its lifetime.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Config returns the effective configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Pending returns the number of queued entries.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

// Start begins periodic flushing. Later calls are no-ops.
func (t *Tracker) Start(ctx context.Context) {
	t.startOnce.Do(func() {
		t.started.Store(true)
		go t.loop(logging.ContextWithLogger(t.background, logging.LoggerFromContext(ctx)))
	})
}

func (t *Tracker) loop(ctx context.Context) {
	defer close(t.loopDone)
	ticker := time.NewTicker(t.cfg.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			_ = t.Flush(ctx)
		}
	}
}

// LogError records an error report. err may be an error, a string or any
// value carrying a message; where names the call site. Empty severity and
// category default to medium and javascript. For error values the entry's
// stack is that of the goroutine calling LogError, not where err was created.
// Fields longer than the collector accepts are cut to fit.
func (t *Tracker) LogError(
	ctx context.Context,
	err any,
	where string,
	metadata map[string]any,
	severity Severity,
	category Category,
) {
	if severity == "" {
		severity = SeverityMedium
	}
	if category == "" {
		category = CategoryJavaScript
	}
	message, stack := normalize(err)
	req := t.ambient(ctx)
	entry := Entry{
		Message:   message,
		Stack:     stack,
		Context:   where,
		Metadata:  metadata,
		Timestamp: timeutil.NewTime(t.now().UTC()),
		URL:       req.URL,
		UserAgent: req.UserAgent,
		UserID:    req.UserID,
		SessionID: t.sessionID,
		Severity:  severity,
		Category:  category,
	}.fit()

	if t.cfg.Development {
		t.logLocal(ctx, entry)
	}

	t.mu.Lock()
	t.queue = append(t.queue, entry)
	full := len(t.queue) >= t.cfg.BatchSize
	t.mu.Unlock()

	if severity == SeverityCritical || full {
		t.schedule(ctx)
	}

	t.mirror(ctx, entry)
}

// schedule starts an async flush unless one is already waiting for the queue.
// Entries logged while a flush is delivering schedule a single follow-up.
func (t *Tracker) schedule(ctx context.Context) {
	if !t.scheduled.CompareAndSwap(false, true) {
		return
	}
	logger := logging.LoggerFromContext(ctx)
	t.pending.Add(1)
	go func() {
		defer t.pending.Done()
		t.flushMu.Lock()
		defer t.flushMu.Unlock()
		t.scheduled.Store(false)
		_ = t.flush(logging.ContextWithLogger(t.background, logger))
	}()
}

func (t *Tracker) logLocal(ctx context.Context, e Entry) {
	fields := []zap.Field{
		zap.String("tracker.severity", string(e.Severity)),
		zap.String("tracker.category", string(e.Category)),
		zap.String("tracker.context", e.Context),
		zap.Any("tracker.metadata", e.Metadata),
	}
	logger := logging.LoggerFromContext(ctx)
	switch e.Severity {
	case SeverityCritical:
		logger.Error(e.Message, fields...)
	case SeverityHigh:
		logger.Warn(e.Message, fields...)
	default:
		logger.Info(e.Message, fields...)
	}
}

func (t *Tracker) mirror(ctx context.Context, e Entry) {
	if t.telemetry == nil {
		return
	}
	params := map[string]any{
		"description":        e.Message,
		"fatal":              e.Severity == SeverityCritical,
		"custom_parameter_1": string(e.Category),
		"custom_parameter_2": e.Context,
	}
	t.events.Add(1)
	go func() {
		defer t.events.Done()
		defer func() { _ = recover() }()
		t.telemetry.Event(context.WithoutCancel(ctx), "exception", params)
	}()
}

// Flush delivers queued entries in requests of at most MaxBatch. On failure
// the undelivered entries are put back ahead of entries logged in the
// meantime and the delivery error is returned. Batches the collector rejects
// as invalid are dropped and logged.
func (t *Tracker) Flush(ctx context.Context) error {
	t.flushMu.Lock()
	defer t.flushMu.Unlock()
	return t.flush(ctx)
}

func (t *Tracker) flush(ctx context.Context) error {
	t.mu.Lock()
	batch := t.queue
	t.queue = nil
	t.mu.Unlock()

	var rejected error
	for len(batch) > 0 {
		chunk := batch[:min(len(batch), MaxBatch)]
		err := t.transport.Deliver(ctx, chunk)
		switch {
		case err == nil:
		case errors.Is(err, ErrRejected):
			logging.LogError(ctx, "error batch dropped", err, zap.Int("tracker.batch", len(chunk)))
			rejected = errors.Join(rejected, err)
		default:
			t.mu.Lock()
			t.queue = append(batch, t.queue...)
			t.mu.Unlock()
			logging.LogWarn(ctx, "error batch requeued",
				zap.Int("tracker.batch", len(batch)),
				zap.Error(err),
			)
			return errors.Join(rejected, err)
		}
		batch = batch[len(chunk):]
	}
	return rejected
}

// Close stops periodic flushing, waits for in-flight work and flushes what is
// left. When ctx ends first, in-flight deliveries are abandoned and ctx's
// error is returned; unsent entries stay queued.
func (t *Tracker) Close(ctx context.Context) error {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	idle := make(chan struct{})
	go func() {
		if t.started.Load() {
			<-t.loopDone
		}
		t.pending.Wait()
		t.events.Wait()
		close(idle)
	}()
	select {
	case <-idle:
	case <-ctx.Done():
		t.abandon()
		return ctx.Err()
	}
	return t.Flush(ctx)
}

func normalize(v any) (message, stack string) {
	switch x := v.(type) {
	case nil:
		message = api.ErrorMessage(nil)
	case string:
		message = x
	case error:
		message, stack = api.ErrorMessage(x), string(debug.Stack())
	default:
		message = api.ErrorMessage(v)
	}
	if strings.TrimSpace(message) == "" {
		message = api.ErrorMessage(nil)
	}
	return message, stack
}
