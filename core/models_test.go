package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageString(t *testing.T) {
	assert.Equal(t, "English", LanguageEnglish.String())
	assert.Equal(t, "Spanish", LanguageSpanish.String())

	// Zero value falls back to the primary language label
	assert.Equal(t, "English", Language(0).String())
}

func TestMetadataGetString(t *testing.T) {
	m := Metadata{
		"source":  "minutes.md",
		"heading": "Meeting Schedule",
		"page":    7,
		"url":     nil,
	}

	t.Run("string value", func(t *testing.T) {
		assert.Equal(t, "minutes.md", m.GetString("source", "None"))
	})

	t.Run("missing key uses fallback", func(t *testing.T) {
		assert.Equal(t, "None", m.GetString("absent", "None"))
	})

	t.Run("nil value uses fallback", func(t *testing.T) {
		assert.Equal(t, "", m.GetString("url", ""))
	})

	t.Run("non-string value is formatted", func(t *testing.T) {
		assert.Equal(t, "7", m.GetString("page", ""))
	})
}

func TestSourceFromMetadata(t *testing.T) {
	t.Run("all keys present", func(t *testing.T) {
		src := SourceFromMetadata(Metadata{
			"heading": "City Council",
			"source":  "minutes.md",
			"url":     "https://example.org/minutes",
			"page":    "3",
		})
		assert.Equal(t, Source{
			Heading: "City Council",
			Source:  "minutes.md",
			URL:     "https://example.org/minutes",
			Page:    "3",
		}, src)
	})

	t.Run("empty metadata uses placeholders", func(t *testing.T) {
		src := SourceFromMetadata(Metadata{})
		assert.Equal(t, "Unknown Title", src.Heading)
		assert.Equal(t, "None", src.Source)
		assert.Empty(t, src.URL)
		assert.Empty(t, src.Page)
	})
}
