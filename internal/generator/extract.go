package generator

import (
	"fmt"
	"strings"
)

// ExtractJSON returns the text from the first "{" to the last "}" inclusive.
// The match is greedy: surrounding prose and code fences are dropped, but a
// response holding two separate objects yields a slice that will not parse.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", fmt.Errorf("%w: no opening brace", ErrExtraction)
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return "", fmt.Errorf("%w: no closing brace", ErrExtraction)
	}
	return text[start : end+1], nil
}
