package repurpose

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// jsonObjectPattern grabs from the first '{' through the final '}' of the text.
var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}$`)

// ParseResponse turns raw model text into a JSON object map. Leading ```json or
// ``` and a trailing ``` are stripped first. Any failure is MalformedResponse.
func ParseResponse(raw string) (map[string]json.RawMessage, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, newError(KindMalformedResponse, errors.New("empty model output"))
	}

	match := jsonObjectPattern.FindString(cleaned)
	if match == "" {
		return nil, newError(KindMalformedResponse, errors.New("model output contains no json object"))
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match), &obj); err != nil {
		return nil, newError(KindMalformedResponse, err)
	}
	return obj, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```JSON") {
		s = s[len("```JSON"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
