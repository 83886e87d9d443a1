package tracker

import (
	"strings"
	"unicode/utf8"

	"github.com/janisto/legalhelp-api/internal/platform/timeutil"
)

// Severity grades an error report. Critical reports are delivered at once.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Category groups error reports by origin. The values are shared with web
// clients posting to the same collector.
type Category string

const (
	CategoryJavaScript  Category = "javascript"
	CategoryAPI         Category = "api"
	CategoryDatabase    Category = "database"
	CategoryAuth        Category = "auth"
	CategoryPayment     Category = "payment"
	CategoryPerformance Category = "performance"
	CategorySecurity    Category = "security"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryJavaScript, CategoryAPI, CategoryDatabase, CategoryAuth,
		CategoryPayment, CategoryPerformance, CategorySecurity:
		return true
	}
	return false
}

// Severities lists every severity from least to most severe.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// Categories lists every category.
func Categories() []Category {
	return []Category{
		CategoryJavaScript, CategoryAPI, CategoryDatabase, CategoryAuth,
		CategoryPayment, CategoryPerformance, CategorySecurity,
	}
}

// Field limits enforced by the collector, in characters.
const (
	maxMessage   = 10000
	maxStack     = 50000
	maxContext   = 500
	maxURL       = 2048
	maxUserAgent = 1000
	maxID        = 128
)

// Entry is one error observation as sent to the collector.
type Entry struct {
	Message   string         `json:"message"            minLength:"1" maxLength:"10000" doc:"Error message"`
	Stack     string         `json:"stack,omitempty"    maxLength:"50000"                doc:"Stack trace"`
	Context   string         `json:"context,omitempty"  maxLength:"500"                  doc:"Where the error happened"`
	Metadata  map[string]any `json:"metadata,omitempty"                                  doc:"Free-form details"`
	Timestamp timeutil.Time  `json:"timestamp"                                           doc:"When the error was observed"`
	URL       string         `json:"url"                maxLength:"2048"                 doc:"Request or page URL"`
	UserAgent string         `json:"userAgent"          maxLength:"1000"                 doc:"Client user agent"`
	UserID    string         `json:"userId,omitempty"   maxLength:"128"                  doc:"Authenticated user, if known"`
	SessionID string         `json:"sessionId"          maxLength:"128"                  doc:"Reporting session"`
	Severity  Severity       `json:"severity"           enum:"low,medium,high,critical"`
	Category  Category       `json:"category"           enum:"javascript,api,database,auth,payment,performance,security"`
}

// clip cuts s to at most n characters without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n || utf8.RuneCountInString(s) <= n {
		return s
	}
	var b strings.Builder
	b.Grow(n)
	for _, r := range s {
		if n == 0 {
			break
		}
		b.WriteRune(r)
		n--
	}
	return b.String()
}

// fit clips every bounded field to the collector limits.
func (e Entry) fit() Entry {
	e.Message = clip(e.Message, maxMessage)
	e.Stack = clip(e.Stack, maxStack)
	e.Context = clip(e.Context, maxContext)
	e.URL = clip(e.URL, maxURL)
	e.UserAgent = clip(e.UserAgent, maxUserAgent)
	e.UserID = clip(e.UserID, maxID)
	e.SessionID = clip(e.SessionID, maxID)
	return e
}
