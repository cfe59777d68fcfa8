package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator validates a parsed value after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON extracts a JSON object or array of type T from raw model output.
// Markdown code fences and prose around the payload are tolerated. When schema
// is non-nil the payload must validate against it before decoding, and when
// validator is non-nil the decoded value must pass it too. Every failure wraps
// ErrInvalidOutput.
func ExtractJSON[T any](raw string, schema gojsonschema.JSONLoader, validator SchemaValidator[T]) (T, error) {
	var zero T

	payload := extractJSONBlock(stripCodeFences(raw))
	if payload == "" {
		return zero, fmt.Errorf("%w: no JSON payload found in response", ErrInvalidOutput)
	}

	if schema != nil {
		result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(payload))
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
		if !result.Valid() {
			issues := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				issues = append(issues, desc.String())
			}
			return zero, fmt.Errorf("%w: schema violation: %s", ErrInvalidOutput, strings.Join(issues, "; "))
		}
	}

	var result T
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}

	return result, nil
}

// stripCodeFences removes markdown fence lines (```json ... ```), keeping their content.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// extractJSONBlock returns the first balanced {...} or [...] block in s.
func extractJSONBlock(s string) string {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
