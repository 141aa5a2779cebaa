// Package strings cleans free-form string lists taken from request payloads.
package strings

import (
	"strings"
)

// Dedupe trims each value, drops empty ones and keeps only the first value
// seen for each key. Order is preserved and the kept value is the trimmed
// original, not its key.
func Dedupe(values []string, key func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		k := trimmed
		if key != nil {
			k = key(trimmed)
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// DedupeFold compares case-insensitively, so "Audit" and "audit" collapse
// to whichever spelling came first.
func DedupeFold(values []string) []string {
	return Dedupe(values, strings.ToLower)
}
