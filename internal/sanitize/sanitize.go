// Package sanitize normalizes free-text input before persistence. Inputs
// are trimmed and silently truncated to the column cap rather than rejected.
package sanitize

import "strings"

// String trims surrounding whitespace and truncates to max runes.
// max <= 0 means no cap.
func String(value string, max int) string {
	trimmed := strings.TrimSpace(value)
	if max <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) > max {
		return string(runes[:max])
	}
	return trimmed
}

// Strings applies String to every element, dropping empties and duplicates
// while preserving order.
func Strings(values []string, max int) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		cleaned := String(value, max)
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		out = append(out, cleaned)
	}
	return out
}
