package query

import (
	"testing"
	"time"

	"github.com/JFlic/EarlhamAI/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPrompt(t *testing.T) {
	date := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)

	t.Run("english prompt carries the date", func(t *testing.T) {
		prompt := buildSystemPrompt(core.LanguageEnglish, date)
		assert.Contains(t, prompt, "Monday, August 24, 2026")
		assert.NotContains(t, prompt, "Respond in Spanish.")
		assert.NotContains(t, prompt, "{{")
	})

	t.Run("spanish prompt adds language instruction", func(t *testing.T) {
		prompt := buildSystemPrompt(core.LanguageSpanish, date)
		assert.Contains(t, prompt, "Respond in Spanish.")
		assert.Contains(t, prompt, "answer the query in Spanish")
		assert.NotContains(t, prompt, "{{")
	})
}
