package search

import (
	"regexp"
	"strings"
)

// minKeywordLength drops short tokens; words of this length or less are
// not useful as search keywords.
const minKeywordLength = 2

// Stop words to filter out of keyword extraction. The list is
// English-specific; extraction always runs on translated text.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"but": true, "is": true, "are": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "with": true,
}

var wordPattern = regexp.MustCompile(`\w+`)

// extractKeywords pulls meaningful search terms from a query: lower-cased
// word tokens with stop words and short tokens removed. Returns nil when
// nothing usable remains, in which case keyword search is skipped for the
// query.
func extractKeywords(query string) []string {
	words := wordPattern.FindAllString(strings.ToLower(query), -1)

	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if !stopWords[word] && len(word) > minKeywordLength {
			keywords = append(keywords, word)
		}
	}

	if len(keywords) == 0 {
		return nil
	}
	return keywords
}

// keywordDisjunction formats keywords for the store's text-search query
// ("word1 | word2 | word3").
func keywordDisjunction(keywords []string) string {
	return strings.Join(keywords, " | ")
}
