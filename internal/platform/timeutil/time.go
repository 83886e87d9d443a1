// Package timeutil formats API timestamps as RFC 3339 UTC with millisecond
// precision in JSON, CBOR and the OpenAPI schema.
package timeutil

import (
	"errors"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
)

// RFC3339Millis is the wire format for API timestamps.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is the log timestamp format.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// Time is a time.Time that always serializes as RFC3339Millis in UTC.
// Decoding null leaves the value unchanged.
type Time struct {
	time.Time
}

func NewTime(t time.Time) Time { return Time{Time: t} }

func Now() Time { return Time{Time: time.Now()} }

// String returns the wire form.
func (t Time) String() string {
	return t.UTC().Format(RFC3339Millis)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errors.New("timeutil: timestamp must be a JSON string")
	}
	return t.parse(s[1 : len(s)-1])
}

func (t Time) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(t.String())
}

func (t *Time) UnmarshalCBOR(data []byte) error {
	var s *string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	return t.parse(*s)
}

func (t *Time) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Schema describes Time as a date-time string for request validation and docs.
func (Time) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{Type: huma.TypeString, Format: "date-time", Examples: []any{"2024-01-15T10:30:00.000Z"}}
}
