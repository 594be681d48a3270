package inference

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeFaces normalizes the collaborator's response body into an ordered slice.
// It accepts a single face object, an array of faces, or either wrapped in {"results": ...}.
func DecodeFaces(body []byte) ([]RawFace, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch body[0] {
	case '[':
		var faces []RawFace
		if err := json.Unmarshal(body, &faces); err != nil {
			return nil, fmt.Errorf("failed to decode face list: %w", err)
		}
		return faces, nil

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if results, ok := fields["results"]; ok {
			if bytes.Equal(bytes.TrimSpace(results), []byte("null")) {
				return nil, nil
			}
			return DecodeFaces(results)
		}

		var face RawFace
		if err := json.Unmarshal(body, &face); err != nil {
			return nil, fmt.Errorf("failed to decode face: %w", err)
		}
		if face.Emotion == nil {
			// Error bodies, health payloads and bare regions are not faces.
			return nil, fmt.Errorf("response object is neither a face nor a results envelope: %s", truncate(body, 200))
		}
		return []RawFace{face}, nil

	default:
		return nil, fmt.Errorf("unexpected response shape starting with %q", body[0])
	}
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
