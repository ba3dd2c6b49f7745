package redact

import (
	"regexp"
)

const mask = "[REDACTED]"

// Keys whose values must never reach the audit trail.
var sensitiveKeyPattern = regexp.MustCompile(`(?i)(secret|token|password|credential|api[_-]?key|access[_-]?key)`)

type Redactor struct{}

func New() *Redactor {
	return &Redactor{}
}

// SensitiveKey reports whether a parameter key names a credential-like value.
func (r *Redactor) SensitiveKey(key string) bool {
	return sensitiveKeyPattern.MatchString(key)
}

// RedactMap returns a copy of the map with values under sensitive keys
// replaced by a fixed mask. Nested maps and slices are walked; other
// values pass through untouched.
func (r *Redactor) RedactMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	output := make(map[string]any, len(input))
	for k, v := range input {
		if r.SensitiveKey(k) {
			output[k] = mask
			continue
		}
		output[k] = r.RedactValue(v)
	}
	return output
}

func (r *Redactor) RedactValue(input any) any {
	switch v := input.(type) {
	case map[string]any:
		return r.RedactMap(v)
	case []any:
		redacted := make([]any, 0, len(v))
		for _, item := range v {
			redacted = append(redacted, r.RedactValue(item))
		}
		return redacted
	default:
		return input
	}
}
