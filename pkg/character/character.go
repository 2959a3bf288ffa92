// Package character turns free-form model output into a structured
// protagonist suggestion. Parsing is best-effort and total: it degrades to
// defaults instead of failing.
package character

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Suggestion is a protagonist proposal extracted from model output.
type Suggestion struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
}

const (
	DefaultName        = "Hero"
	DefaultPersonality = "Brave and curious."
)

// Non-nested brace-delimited blocks, newlines allowed.
var jsonBlockRX = regexp.MustCompile(`(?s)\{[^{}]*\}`)

// Parse extracts {name, personality} from raw model text. It first tries a
// strict JSON parse of an embedded object carrying both keys, then falls back
// to a line scan where later "name:" / "personality:" lines overwrite earlier
// ones. The last-match-wins precedence is deliberate; keep it.
func Parse(raw string) Suggestion {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Suggestion{Name: DefaultName, Personality: DefaultPersonality}
	}

	if block, ok := findJSONBlock(raw); ok {
		var obj map[string]any
		if err := json.Unmarshal([]byte(block), &obj); err == nil {
			return Suggestion{
				Name:        stringField(obj, "name", DefaultName),
				Personality: stringField(obj, "personality", DefaultPersonality),
			}
		}
	}

	return parseLines(raw)
}

// findJSONBlock returns the first brace-delimited substring mentioning both
// keys, order- and case-insensitively.
func findJSONBlock(raw string) (string, bool) {
	for _, block := range jsonBlockRX.FindAllString(raw, -1) {
		lower := strings.ToLower(block)
		if strings.Contains(lower, `"name"`) && strings.Contains(lower, `"personality"`) {
			return block, true
		}
	}
	return "", false
}

func stringField(obj map[string]any, key, fallback string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return fallback
}

func parseLines(raw string) Suggestion {
	s := Suggestion{Name: DefaultName, Personality: raw}
	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "name") && strings.Contains(line, ":") {
			s.Name = afterColon(line)
		}
		if strings.Contains(lower, "personality") && strings.Contains(line, ":") {
			s.Personality = afterColon(line)
		}
	}
	return s
}

func afterColon(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return strings.Trim(strings.TrimSpace(rest), `"`)
}
