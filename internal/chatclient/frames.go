package chatclient

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"PortfolioChat/internal/backend"
)

// lineBuffer holds decoded stream text until a newline completes it
type lineBuffer struct {
	pending string
}

// Append adds text and returns every line it completed, without the newline.
// The unterminated tail stays buffered.
func (b *lineBuffer) Append(text string) []string {
	b.pending += text
	lines := strings.Split(b.pending, "\n")
	b.pending = lines[len(lines)-1]
	return lines[:len(lines)-1]
}

// parseDataLine extracts the frame from a "data: " line. Lines with another
// prefix, an empty payload, or a payload that is not valid JSON report false.
//
// Fields are read loosely: a field counts as set when its value is truthy
// (not null, false, 0 or ""), and non-string values are rendered as text.
// JSON that is not an object yields an empty frame.
func parseDataLine(line string) (backend.Frame, bool) {
	payload, ok := strings.CutPrefix(line, backend.DataLinePrefix)
	if !ok || payload == "" {
		return backend.Frame{}, false
	}

	var raw any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		// Keepalives and comments share the stream
		return backend.Frame{}, false
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		return backend.Frame{}, true
	}

	return backend.Frame{
		Chunk:     fieldText(fields["chunk"]),
		SessionID: fieldText(fields["session_id"]),
		Error:     fieldText(fields["error"]),
	}, true
}

// fieldText renders a frame field, or returns "" when the field is falsy
func fieldText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return ""
	case float64:
		if v == 0 {
			return ""
		}
		return formatNumber(v)
	default:
		// Objects and arrays are set even when empty
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return ""
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}

// formatNumber prints a number the way the web widget would show it
func formatNumber(f float64) string {
	if a := math.Abs(f); a >= 1e21 || a < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
