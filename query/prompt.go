package query

import (
	"strings"
	"time"

	"github.com/JFlic/EarlhamAI/core"
)

// promptDateFormat renders the current date the way it appears in the
// prompt, e.g. "Monday, August 24, 2026".
const promptDateFormat = "Monday, January 2, 2006"

const systemPromptTemplate = `You are an AI assistant for a private document collection. You can provide information, answer questions and perform other tasks as needed.
Today's date is {{date}}. Please be aware of this when discussing events, deadlines, or time-sensitive information.
Don't repeat queries. {{language_instruction}}

Given the context information and not prior knowledge, answer the query{{language_suffix}}.
If the context is empty say that you don't have any information about the question{{language_suffix}}.
Don't give sources.
At the end tell the user that if they have any more questions to let you know.
Format your response in proper markdown with formatting symbols:
- Use line breaks between paragraphs.
- For lists, use a dash and a space before each item, one item per line.
- For numbered lists, use numbers followed by a period, one item per line.
- For section headings, use ## with a space after.
- Make important terms **bold** using double asterisks.
- If you include code blocks, use triple backticks with the language name.`

// buildSystemPrompt prepares the generation prompt template for the
// detected language and current date. It has no data dependency on
// retrieval and runs concurrently with it.
func buildSystemPrompt(language core.Language, now time.Time) string {
	instruction := ""
	suffix := ""
	if language == core.LanguageSpanish {
		instruction = "Respond in Spanish."
		suffix = " in Spanish"
	}

	prompt := systemPromptTemplate
	prompt = strings.ReplaceAll(prompt, "{{date}}", now.Format(promptDateFormat))
	prompt = strings.ReplaceAll(prompt, "{{language_instruction}}", instruction)
	prompt = strings.ReplaceAll(prompt, "{{language_suffix}}", suffix)
	return prompt
}
