package query

import (
	"regexp"
	"strings"
)

// Reasoning models wrap internal deliberation in paired markers that must
// never reach the caller.
var reasoningSpan = regexp.MustCompile(`(?s)<think>.*?</think>`)

// stripReasoning removes every reasoning span from the answer, including
// spans crossing line boundaries, and trims surrounding whitespace.
func stripReasoning(answer string) string {
	return strings.TrimSpace(reasoningSpan.ReplaceAllString(answer, ""))
}

// truncateContent caps passage content at max runes so retrieved context
// cannot blow up the generation prompt.
func truncateContent(content string, max int) string {
	if max <= 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max])
}
