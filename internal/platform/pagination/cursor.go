package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidCursor is returned for cursors that do not decode or belong to
// another resource.
var ErrInvalidCursor = errors.New("invalid cursor format")

// Cursor is an opaque position: the resource kind and the last ID seen.
type Cursor struct {
	Type  string
	Value string
}

// Encode returns the URL-safe base64 form of c.
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Type + ":" + c.Value))
}

// DecodeCursor parses s and checks it was issued for cursorType. An empty
// string is the first page.
func DecodeCursor(s, cursorType string) (Cursor, error) {
	if s == "" {
		return Cursor{Type: cursorType}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	typ, value, ok := strings.Cut(string(b), ":")
	if !ok || typ != cursorType {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Type: typ, Value: value}, nil
}
