package client

import "strings"

// ExtractJSON returns the substring spanning the first '{' to the last '}'
// of s, or s unchanged when no such span exists. Models frequently wrap
// their JSON answer in prose; this takes the outermost brace span and
// assumes exactly one JSON object is present. Inputs with unbalanced braces
// inside string values, or with multiple independent top-level objects, are
// not handled; the span is returned as-is and left to the caller to parse.
func ExtractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
