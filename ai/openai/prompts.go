package openai

import "strings"

const translatePromptTemplate = "Translate the following Spanish text to English, keep the meaning and don't add any extra text, just the translation: "

// buildTranslatePrompt formats the translation instruction for one query.
func buildTranslatePrompt(text string) string {
	return translatePromptTemplate + text
}

const contextDelimiter = "---------------------"

// buildUserPrompt assembles the human message for a generation call: the
// retrieved passages between delimiters, then the query.
func buildUserPrompt(passages []string, query string) string {
	var b strings.Builder
	b.WriteString(contextDelimiter)
	b.WriteString("\n")
	for i, passage := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(passage)
	}
	b.WriteString("\n")
	b.WriteString(contextDelimiter)
	b.WriteString("\n\nQuery: ")
	b.WriteString(query)
	b.WriteString("\nAnswer:\n")
	return b.String()
}
