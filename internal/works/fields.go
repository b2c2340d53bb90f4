package works

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AsString coerces a raw payload value into a trimmed string. Numbers are
// rendered without exponent notation since identifiers sometimes arrive as
// JSON numbers. Unsupported shapes collapse to "".
func AsString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// FirstString returns the first non-empty AsString coercion among the given
// keys of the payload.
func FirstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := payload[key]; ok {
			if s := AsString(value); s != "" {
				return s
			}
		}
	}
	return ""
}
