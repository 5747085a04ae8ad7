package ingest

import (
	"encoding/json"
	"strings"
)

// PlaceholderMessage is used when nothing resembling alert text can be
// pulled out of the request.
const PlaceholderMessage = "Signal received (no message content)"

// ExtractMessage pulls the alert text out of an opaque webhook body.
// The charting tool sends plain text, a JSON string, or JSON objects of
// varying shape, so extraction walks an ordered fallback chain and never
// fails:
//
//	JSON string → "message" field → "text" field → pretty-printed payload
//	→ raw body verbatim → placeholder
func ExtractMessage(body []byte) string {
	msg := extractStructured(body)

	// An empty result or a bare "{}" means the structured walk found
	// nothing useful; fall back to the raw bytes.
	if degenerate(msg) {
		msg = strings.TrimSpace(string(body))
	}
	if degenerate(msg) {
		return PlaceholderMessage
	}
	return msg
}

func extractStructured(body []byte) string {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		// Not JSON at all: the body is the alert text.
		return strings.TrimSpace(string(body))
	}

	switch v := payload.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		if s, ok := v["message"].(string); ok && s != "" {
			return s
		}
		if s, ok := v["text"].(string); ok && s != "" {
			return s
		}
	}

	// Arbitrary JSON: serialize it verbatim so nothing is lost.
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return strings.TrimSpace(string(body))
	}
	return string(pretty)
}

func degenerate(msg string) bool {
	return msg == "" || msg == "{}" || msg == "null"
}
