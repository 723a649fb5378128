package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	braceSpanPattern  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls a JSON object out of a model reply. Strategies are
// tried in order: the whole reply, a fenced code block, the widest
// brace-delimited span. The first candidate that parses as a JSON object
// wins; anything else (arrays, bare scalars, null) does not count.
func ExtractJSON(text string) (map[string]any, bool) {
	payload, ok := extractObject(text)
	if !ok {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// DecodeJSON extracts a JSON object from a model reply with the same
// strategies as ExtractJSON and unmarshals it into dst.
func DecodeJSON(text string, dst any) bool {
	payload, ok := extractObject(text)
	if !ok {
		return false
	}
	return json.Unmarshal(payload, dst) == nil
}

func extractObject(text string) ([]byte, bool) {
	candidates := []string{strings.TrimSpace(text)}
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := braceSpanPattern.FindString(text); m != "" {
		candidates = append(candidates, m)
	}

	for _, candidate := range candidates {
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil && obj != nil {
			return []byte(candidate), true
		}
	}
	return nil, false
}
