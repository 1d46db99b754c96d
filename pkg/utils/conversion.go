package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToBool safely converts various types to boolean.
// Handles bool, numeric types, []byte (TINYINT from the driver) and
// string forms ("1", "true", "yes", "on").
func ToBool(val interface{}) bool {
	if val == nil {
		return false
	}

	switch v := val.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case []byte:
		return parseBoolString(string(v))
	case string:
		return parseBoolString(v)
	default:
		return parseBoolString(fmt.Sprintf("%v", v))
	}
}

func parseBoolString(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "1" || lower == "true" || lower == "yes" || lower == "on" || lower == "t" {
		return true
	}
	if b, err := strconv.ParseBool(lower); err == nil {
		return b
	}
	return false
}

// ToFloat converts a value to float64, reporting whether the conversion
// was meaningful. Strings and []byte are parsed; nil and non-numeric
// values return (0, false).
func ToFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToString renders a value for display. nil stays empty so callers can
// substitute their own placeholder.
func ToString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToTime attempts to interpret a value as a timestamp. Accepts time.Time
// and the common MySQL string layouts.
func ToTime(val interface{}) (time.Time, bool) {
	switch v := val.(type) {
	case time.Time:
		return v, true
	case []byte:
		return parseTimeString(string(v))
	case string:
		return parseTimeString(v)
	default:
		return time.Time{}, false
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
