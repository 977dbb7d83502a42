package query

import (
	"testing"

	"github.com/JFlic/EarlhamAI/core"
	"github.com/stretchr/testify/assert"
)

func TestLanguageDetector(t *testing.T) {
	detector := newLanguageDetector()

	tests := []struct {
		name string
		text string
		want core.Language
	}{
		{
			name: "english query",
			text: "Tell me about City Council",
			want: core.LanguageEnglish,
		},
		{
			name: "spanish query",
			text: "Háblame del Concejo Municipal de la ciudad",
			want: core.LanguageSpanish,
		},
		{
			name: "empty text defaults to english",
			text: "",
			want: core.LanguageEnglish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Detect(tt.text))
		})
	}
}
