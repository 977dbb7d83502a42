package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{
			name:   "no markers",
			answer: "The council meets on Monday.",
			want:   "The council meets on Monday.",
		},
		{
			name:   "single span",
			answer: "<think>checking the schedule</think>The council meets on Monday.",
			want:   "The council meets on Monday.",
		},
		{
			name:   "multiline span",
			answer: "<think>line one\nline two\nline three</think>\n\nThe council meets on Monday.",
			want:   "The council meets on Monday.",
		},
		{
			name:   "multiple spans",
			answer: "<think>first</think>Answer part one. <think>second</think>Part two.",
			want:   "Answer part one. Part two.",
		},
		{
			name:   "trims surrounding whitespace",
			answer: "  \n<think>x</think>  answer  ",
			want:   "answer",
		},
		{
			name:   "empty after stripping",
			answer: "<think>only reasoning</think>",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripReasoning(tt.answer))
		})
	}
}

func TestTruncateContent(t *testing.T) {
	t.Run("under budget unchanged", func(t *testing.T) {
		assert.Equal(t, "short", truncateContent("short", 10))
	})

	t.Run("over budget truncated", func(t *testing.T) {
		assert.Equal(t, "abcde", truncateContent("abcdefgh", 5))
	})

	t.Run("multibyte runes survive", func(t *testing.T) {
		assert.Equal(t, "Háb", truncateContent("Háblame", 3))
	})

	t.Run("zero budget disables truncation", func(t *testing.T) {
		assert.Equal(t, "anything", truncateContent("anything", 0))
	})
}
