package jsonutils

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	reFence         = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	reObject        = regexp.MustCompile(`(?s)\{.*\}`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// ExtractJSON pulls a JSON object out of LLM output.
//
// Priority:
// 1. Triple-backtick fenced ```json ... ```
// 2. Any {...} JSON object (greedy, first { to last })
//
// It also strips invisible Unicode characters and trailing commas, both of
// which models produce routinely.
func ExtractJSON(input string) string {
	input = strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\uFEFF' || r == '\u200B' || r == '\u200C' || r == '\u200D' {
			return -1
		}
		return r
	}, input))

	if match := reFence.FindStringSubmatch(input); len(match) > 1 {
		input = strings.TrimSpace(match[1])
	} else if match := reObject.FindString(input); match != "" {
		input = strings.TrimSpace(match)
	} else {
		return ""
	}

	input = reTrailingComma.ReplaceAllString(input, "$1")
	return strings.TrimSpace(input)
}

// ToJSON serializes a Go value to an indented JSON string, or "" on failure.
func ToJSON(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bytes))
}
