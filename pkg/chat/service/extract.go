package service

import "strings"

// extractDisplayText walks fields in order over a decoded response object
// and returns the first non-empty string value, else FallbackText. Missing,
// null, or non-string fields fall through silently: an unexpected body shape
// is never an error once the JSON itself decoded.
func extractDisplayText(body map[string]any, fields ...string) string {
	for _, field := range fields {
		if s, ok := body[field].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return FallbackText
}

// stringField returns the named field when it is a string, else "".
func stringField(body map[string]any, field string) string {
	s, _ := body[field].(string)
	return s
}

// stringSliceField returns the named field's string elements, tolerating
// both missing fields and mixed-type arrays.
func stringSliceField(body map[string]any, field string) []string {
	raw, ok := body[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
