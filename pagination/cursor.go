package pagination

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-errors"
)

// Direction is the scan direction carried by a cursor.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// TextCodeInvalidCursor is attached to cursor decode failures.
const TextCodeInvalidCursor = "INVALID_CURSOR"

// ErrInvalidCursor is returned (joined with the underlying cause) when a cursor
// token cannot be decoded. Callers treat it as "no cursor".
var ErrInvalidCursor = errors.New("invalid cursor", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidCursor)

// Cursor marks a position in an ordered result set.
type Cursor struct {
	Offset    int       `json:"offset"`
	Direction Direction `json:"direction"`
}

func (c Cursor) valid() error {
	if c.Offset < 0 {
		return fmt.Errorf("negative offset %d", c.Offset)
	}
	switch c.Direction {
	case Forward, Backward:
		return nil
	default:
		return fmt.Errorf("unknown direction %q", c.Direction)
	}
}

// Encode renders c as an opaque URL-safe token.
func Encode(c Cursor) string {
	// marshaling a struct of an int and a string cannot fail
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token produced by Encode. The payload must be a single JSON
// object holding exactly the keys "offset" and "direction", spelled as Encode
// writes them. Any failure is reported as ErrInvalidCursor.
func Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, invalidCursor(err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return Cursor{}, invalidCursor(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Cursor{}, invalidCursor(fmt.Errorf("trailing data after cursor"))
	}

	c, err := cursorFromFields(fields)
	if err != nil {
		return Cursor{}, invalidCursor(err)
	}
	if err := c.valid(); err != nil {
		return Cursor{}, invalidCursor(err)
	}
	return c, nil
}

func cursorFromFields(fields map[string]json.RawMessage) (Cursor, error) {
	if fields == nil {
		return Cursor{}, fmt.Errorf("cursor is not an object")
	}
	for key := range fields {
		if key != "offset" && key != "direction" {
			return Cursor{}, fmt.Errorf("unknown cursor field %q", key)
		}
	}

	var offset *int
	if err := json.Unmarshal(fields["offset"], &offset); err != nil || offset == nil {
		return Cursor{}, fmt.Errorf("missing or invalid offset")
	}
	var direction *Direction
	if err := json.Unmarshal(fields["direction"], &direction); err != nil || direction == nil {
		return Cursor{}, fmt.Errorf("missing or invalid direction")
	}
	return Cursor{Offset: *offset, Direction: *direction}, nil
}

// IsInvalidCursor reports whether err came from a failed Decode.
func IsInvalidCursor(err error) bool {
	return errors.Is(err, ErrInvalidCursor)
}

func invalidCursor(cause error) error {
	return errors.Join(ErrInvalidCursor, cause)
}

// DecodeOrNil decodes token and returns nil when it is empty or invalid.
func DecodeOrNil(token string) *Cursor {
	return resolveCursor(token, slog.Default())
}

func resolveCursor(token string, logger *slog.Logger) *Cursor {
	if token == "" {
		return nil
	}
	c, err := Decode(token)
	if err != nil {
		logger.Debug("ignoring cursor", "cursor", token, "error", err)
		return nil
	}
	return &c
}

// CursorString returns the encoded form of c, or nil.
func CursorString(c *Cursor) *string {
	if c == nil {
		return nil
	}
	s := Encode(*c)
	return &s
}
