package parser

import (
	"encoding/json"
	"strings"
)

// StripCodeFences removes a leading markdown fence line and any trailing
// backticks so fenced model output can be decoded as plain JSON.
func StripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	parts := strings.SplitN(cleaned, "\n", 2)
	if len(parts) > 1 && strings.HasPrefix(strings.TrimSpace(parts[0]), "```") {
		cleaned = parts[1]
	}
	cleaned = strings.TrimRight(cleaned, "`")
	return strings.TrimSpace(cleaned)
}

// ParseLLMJson decodes the first JSON object found in raw model output.
// Falls back to the substring between the first '{' and the last '}' when the
// cleaned text does not decode, and returns an empty map when nothing does.
func ParseLLMJson(raw string) map[string]interface{} {
	cleaned := StripCodeFences(raw)

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		return data
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end != -1 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &data); err == nil {
			return data
		}
	}
	return map[string]interface{}{}
}

// GetString reads a string field, tolerating missing keys and non-string values.
func GetString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

// GetStringSlice reads a list of strings, skipping non-string elements.
func GetStringSlice(data map[string]interface{}, key string) []string {
	raw, ok := data[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetFloat coerces a numeric or numeric-string field, zero when absent or invalid.
func GetFloat(data map[string]interface{}, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		if err := json.Unmarshal([]byte(v), &f); err == nil {
			return f
		}
	}
	return 0.0
}
