package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseMode tags how a completion-service payload was decoded so callers
// can track recovery frequency as a quality signal.
type ParseMode int

const (
	ParseClean ParseMode = iota
	ParseRecovered
)

var errNoObject = errors.New("no JSON object found in response")

// Decode parses untrusted completion output into out. Stage one is a strict
// parse of the whole payload; stage two extracts the first balanced {...}
// span (models like to wrap objects in markdown fences or prose) and parses
// that. Anything beyond that fails.
func Decode(raw string, out any) (ParseMode, error) {
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), out); err == nil {
		return ParseClean, nil
	}

	span, ok := firstObjectSpan(trimmed)
	if !ok {
		return ParseRecovered, errNoObject
	}
	if err := json.Unmarshal([]byte(span), out); err != nil {
		return ParseRecovered, fmt.Errorf("recovery parse failed: %w", err)
	}
	return ParseRecovered, nil
}

// firstObjectSpan returns the first balanced top-level JSON object in s,
// tracking string literals so braces inside values don't confuse the depth
// count.
func firstObjectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// stripFences removes markdown code fences from plain-prose completions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
