package llm

import (
	"encoding/json"
	"fmt"
)

// EncodeContext serializes the messages a request sent into the opaque
// backend_context string every provider echoes back on its terminal event.
// All four providers share this one encoding rather than maintaining four
// distinct per-wire-shape transcripts: the conversation itself already
// lives in full in the caller's state, so context only needs to round-trip
// losslessly, not carry the provider's own wire format.
func EncodeContext(messages []Message) string {
	data, err := json.Marshal(messages)
	if err != nil {
		// Messages is always JSON-safe (string fields only); a marshal
		// failure here would be a programming error, not a runtime one.
		return ""
	}
	return string(data)
}

// DecodeContext parses a backend_context string produced by EncodeContext.
// An empty string decodes to an empty, non-nil slice.
func DecodeContext(ctx string) ([]Message, error) {
	if ctx == "" {
		return []Message{}, nil
	}
	var messages []Message
	if err := json.Unmarshal([]byte(ctx), &messages); err != nil {
		return nil, fmt.Errorf("llm: decode backend context: %w", err)
	}
	return messages, nil
}
