package query

import (
	"github.com/JFlic/EarlhamAI/core"
	"github.com/pemistahl/lingua-go"
)

// languageDetector classifies queries as English or Spanish. Detection is
// best-effort: anything the detector cannot classify with confidence is
// treated as English rather than failing the request.
type languageDetector struct {
	detector lingua.LanguageDetector
}

func newLanguageDetector() *languageDetector {
	return &languageDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Spanish).
			Build(),
	}
}

// Detect returns the detected query language, defaulting to English.
func (d *languageDetector) Detect(text string) core.Language {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return core.LanguageEnglish
	}
	if lang == lingua.Spanish {
		return core.LanguageSpanish
	}
	return core.LanguageEnglish
}
