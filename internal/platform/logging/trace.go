package logging

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^([0-9a-f]{2})-([0-9a-f]{32})-([0-9a-f]{16})-([0-9a-f]{2})$`)

// traceparent is a parsed W3C trace context header.
type traceparent struct {
	traceID string
	spanID  string
	sampled bool
}

// parseTraceparent rejects the reserved ff version and all-zero identifiers.
func parseTraceparent(header string) (traceparent, bool) {
	m := traceparentRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(header)))
	if m == nil || m[1] == "ff" {
		return traceparent{}, false
	}
	if strings.Trim(m[2], "0") == "" || strings.Trim(m[3], "0") == "" {
		return traceparent{}, false
	}
	flags, err := strconv.ParseUint(m[4], 16, 8)
	if err != nil {
		return traceparent{}, false
	}
	return traceparent{traceID: m[2], spanID: m[3], sampled: flags&1 == 1}, true
}

func (tp traceparent) resource(project string) string {
	return "projects/" + project + "/traces/" + tp.traceID
}

func (tp traceparent) fields(project string) []zap.Field {
	return []zap.Field{
		zap.String("logging.googleapis.com/trace", tp.resource(project)),
		zap.String("logging.googleapis.com/spanId", tp.spanID),
		zap.Bool("logging.googleapis.com/trace_sampled", tp.sampled),
	}
}

var (
	configuredProject atomic.Pointer[string]
	envProjectOnce    sync.Once
	envProject        string
)

func setProjectID(id string) {
	configuredProject.Store(&id)
}

// projectID prefers the configured project over the environment.
func projectID() string {
	if p := configuredProject.Load(); p != nil && *p != "" {
		return *p
	}
	envProjectOnce.Do(func() {
		for _, key := range []string{"FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT"} {
			if v := os.Getenv(key); v != "" {
				envProject = v
				return
			}
		}
	})
	return envProject
}
