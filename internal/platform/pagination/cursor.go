package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidCursor indicates a cursor string that could not be decoded.
var ErrInvalidCursor = errors.New("invalid cursor format")

// Cursor is a decoded pagination position. Type names the listing the
// cursor was minted for, so Paginate can refuse a cursor from another
// resource; Value is the id of the last item already returned.
type Cursor struct {
	Type  string
	Value string
}

// Encode renders the cursor as an opaque URL-safe token. Clients pass
// it back verbatim; the "type:value" layout is not part of the API.
func (c Cursor) Encode() string {
	raw := c.Type + ":" + c.Value
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Encode. An empty string is a
// valid first-page cursor, not an error.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Type: parts[0], Value: parts[1]}, nil
}
