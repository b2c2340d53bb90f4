package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Console timestamps use the reader's wall clock; the JSON handler keeps
// machine output in UTC RFC3339.
func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format("2006-01-02 15:04:05")
}

// valueText renders v without quoting and reports whether the text is
// free-form enough that console output should consider quoting it.
func valueText(v slog.Value) (string, bool) {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool()), false
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10), false
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10), false
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64), false
	case slog.KindDuration:
		return v.Duration().String(), false
	case slog.KindTime:
		return formatTimestamp(v.Time()), false
	case slog.KindString:
		return v.String(), true
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error(), true
		}
		return fmt.Sprint(v.Any()), true
	default:
		return v.String(), true
	}
}

// attrString renders v as bare text for places where the value becomes part
// of the line itself rather than a key=value token.
func attrString(v slog.Value) string {
	text, _ := valueText(v)
	return text
}

// formatValue renders v as a console token, quoting free-form text that
// would otherwise break key=value parsing.
func formatValue(v slog.Value) string {
	text, freeform := valueText(v)
	if freeform && needsQuoting(text) {
		return strconv.Quote(text)
	}
	return text
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}
