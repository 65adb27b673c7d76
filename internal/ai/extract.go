package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when an assistant reply contains no parseable JSON
// object. Callers decide whether to abort or substitute a fallback.
var ErrNoJSON = errors.New("could not parse assistant response: no JSON object found")

// ExtractJSONObject finds the first outermost balanced {...} in s,
// skipping braces inside string literals.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '{' {
				depth++
			} else if char == '}' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// decodeReply strips markdown fences, extracts the first balanced JSON object
// from an assistant reply and unmarshals it into target.
func decodeReply(reply string, target any) error {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	jsonStr, ok := ExtractJSONObject(cleaned)
	if !ok {
		return ErrNoJSON
	}

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("could not parse assistant response: %w", err)
	}
	return nil
}
