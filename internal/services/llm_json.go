package services

import (
	"encoding/json"
	"strings"
)

// ParseModelJSON decodes model output into v. It tolerates code-fence
// wrappers and prose around a single JSON object. It reports false when
// nothing decodable is found, leaving v unspecified.
func ParseModelJSON(raw string, v any) bool {
	s := stripFences(raw)
	if s == "" {
		return false
	}
	if json.Unmarshal([]byte(s), v) == nil {
		return true
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return false
	}
	return json.Unmarshal([]byte(s[start:end+1]), v) == nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string, e.g. "json".
	if nl := strings.Index(s, "\n"); nl >= 0 {
		if info := strings.TrimSpace(s[:nl]); !strings.ContainsAny(info, "{[") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
