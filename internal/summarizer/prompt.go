package summarizer

import "strings"

const bulletInstructions = `You are a concise summarizer. Your only task is to analyze the text provided below.
Strictly adhere to the following output rules:
1. Generate exactly 5 bullet points.
2. The output must contain ONLY the bullet points, no introductory phrases (e.g., "Here are five points," "Based on the text," "I can summarize this") or closing remarks.
3. Use a standard asterisk (*) for each bullet point.`

// BuildPrompt wraps text in the five-bullet instructions.
func BuildPrompt(text string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(bulletInstructions)
	b.WriteString("\n\nText to summarize:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n")

	return b.String()
}
