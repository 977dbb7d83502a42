// Copyright 2025 The EarlhamAI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkSize caps a single chunk, in runes. Paragraphs beyond the
// cap are split on sentence-ish boundaries so no chunk exceeds it.
const DefaultMaxChunkSize = 1500

// splitChunks breaks text into paragraph chunks. Blank lines delimit
// paragraphs; oversized paragraphs are split further so every chunk stays
// within maxSize runes. Paragraphs consisting only of Markdown headings are
// skipped: the title is carried in metadata, not as retrievable content.
func splitChunks(text string, maxSize int) []string {
	if maxSize < 1 {
		maxSize = DefaultMaxChunkSize
	}

	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || headingOnly(para) {
			continue
		}
		if utf8.RuneCountInString(para) <= maxSize {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, splitOversized(para, maxSize)...)
	}
	return chunks
}

// splitOversized splits a paragraph that exceeds the rune budget. It packs
// sentences greedily, falling back to a hard rune split for a single
// sentence longer than the budget.
func splitOversized(para string, maxSize int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, sentence := range splitSentences(para) {
		n := utf8.RuneCountInString(sentence)
		if currentLen > 0 && currentLen+n+1 > maxSize {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if n > maxSize {
			chunks = append(chunks, hardSplit(sentence, maxSize)...)
			continue
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(sentence)
		currentLen += n
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' {
				s := strings.TrimSpace(string(runes[start : i+1]))
				if s != "" {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func hardSplit(text string, maxSize int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > maxSize {
		chunks = append(chunks, string(runes[:maxSize]))
		runes = runes[maxSize:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// headingOnly reports whether every line of the paragraph is a Markdown
// heading.
func headingOnly(para string) bool {
	for _, line := range strings.Split(para, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			return false
		}
	}
	return true
}

// extractHeading returns the first Markdown H1 line, without the leading
// hash marks, or the empty string when the text has none.
func extractHeading(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
