package dialogue

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Normalized is a persona reply split into the message shown to the player
// and any structured parameters that came with it.
type Normalized struct {
	Message    string
	Parameters map[string]any
}

// Normalize extracts a message and parameters from a completion reply. A
// JSON object with a scalar "message" field yields that message as text and
// the remaining fields as parameters. Numbers keep their literal digits,
// both in the message and in the parameters. Anything else is returned as
// the message unchanged, without parameters.
func Normalize(raw string) Normalized {
	plain := Normalized{Message: raw}

	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return plain
	}

	fields, ok := decodeObject(trimmed)
	if !ok {
		return plain
	}

	message, ok := messageText(fields["message"])
	if !ok {
		return plain
	}
	delete(fields, "message")

	out := Normalized{Message: message}
	if len(fields) > 0 {
		out.Parameters = fields
	}
	return out
}

func decodeObject(text string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	// Trailing data means the reply was not a single object.
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return fields, true
}

// messageText renders a scalar message. Null, objects and arrays are not
// messages.
func messageText(v any) (string, bool) {
	switch m := v.(type) {
	case string:
		return m, true
	case json.Number:
		return m.String(), true
	case bool:
		return strconv.FormatBool(m), true
	}
	return "", false
}
