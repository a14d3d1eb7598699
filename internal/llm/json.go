package llm

import (
	"encoding/json"
	"strings"
)

// DecodeObject parses a JSON object out of raw model output. Models wrap
// JSON in markdown fences or surrounding prose often enough that direct
// unmarshalling is only the first attempt; after that the fences are
// stripped and finally the outermost {...} span is tried. Returns false
// when no parse succeeds.
func DecodeObject(raw string, v interface{}) bool {
	return decode(raw, v, '{', '}')
}

// DecodeArray is DecodeObject for a top-level JSON array.
func DecodeArray(raw string, v interface{}) bool {
	return decode(raw, v, '[', ']')
}

func decode(raw string, v interface{}, open, close byte) bool {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return false
	}

	if json.Unmarshal([]byte(cleaned), v) == nil {
		return true
	}

	// Strip markdown code fences
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
		if json.Unmarshal([]byte(cleaned), v) == nil {
			return true
		}
	}

	// Last resort: outermost brace span
	start := strings.IndexByte(cleaned, open)
	end := strings.LastIndexByte(cleaned, close)
	if start >= 0 && end > start {
		if json.Unmarshal([]byte(cleaned[start:end+1]), v) == nil {
			return true
		}
	}

	return false
}
