package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
)

var sample = time.Date(2024, 1, 15, 18, 30, 0, 123456789, time.FixedZone("SGT", 8*3600))

func TestJSONUsesUTCMillis(t *testing.T) {
	b, err := json.Marshal(struct {
		At Time `json:"at"`
	}{NewTime(sample)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"at":"2024-01-15T10:30:00.123Z"}` {
		t.Fatalf("unexpected JSON %s", b)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{`"2024-01-15T10:30:00Z"`, false},
		{`"2024-01-15T18:30:00.5+08:00"`, false},
		{`"15/01/2024"`, true},
		{`1705314600`, true},
	}
	for _, tc := range cases {
		var got Time
		err := json.Unmarshal([]byte(tc.in), &got)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err=%v, wantErr=%v", tc.in, err, tc.wantErr)
		}
	}

	kept := NewTime(sample)
	if err := json.Unmarshal([]byte("null"), &kept); err != nil || !kept.Equal(sample) {
		t.Fatalf("null should keep the value, got %v, %v", kept, err)
	}
}

func TestCBORIsTextTimestamp(t *testing.T) {
	b, err := cbor.Marshal(NewTime(sample))
	if err != nil {
		t.Fatal(err)
	}
	var s string
	if err := cbor.Unmarshal(b, &s); err != nil {
		t.Fatalf("expected a CBOR text string: %v", err)
	}
	if s != "2024-01-15T10:30:00.123Z" {
		t.Fatalf("unexpected %q", s)
	}
	var back Time
	if err := cbor.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(sample.Truncate(time.Millisecond)) {
		t.Fatalf("round trip mismatch %v", back)
	}
}

func TestSchemaIsDateTime(t *testing.T) {
	s := Time{}.Schema(nil)
	if s.Type != "string" || s.Format != "date-time" {
		t.Fatalf("unexpected schema %+v", s)
	}
}
