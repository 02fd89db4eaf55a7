package llm

import (
	"fmt"
	"strings"

	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

const systemPrompt = "You are an expert in knowledge management and the P.A.R.A methodology. Respond only with the requested JSON object."

const taggingSystemPrompt = "You are an expert in content tagging and knowledge organization. Generate precise, useful tags. Respond only with the requested JSON object."

// taggingExcerptLen bounds how much content goes into a tagging prompt.
const taggingExcerptLen = 500

// BuildClassificationPrompt renders the classification request for any
// provider, enumerating the fixed taxonomy so the model cannot invent
// categories.
func BuildClassificationPrompt(input string) string {
	var sb strings.Builder

	sb.WriteString("Classify the following content into exactly one category.\n\nContent: ")
	sb.WriteString(input)
	sb.WriteString("\n\nCategories:\n")

	for _, cat := range taxonomy.All() {
		fmt.Fprintf(&sb, "- %s (%s, P.A.R.A: %s)\n", cat.Name, cat.DisplayName, cat.ParaMapping)
	}

	sb.WriteString("\nRespond with a JSON object containing:\n")
	sb.WriteString("- category: one of the category names listed above\n")
	sb.WriteString("- confidence: integer 0-100\n")
	sb.WriteString("- reasoning: one-sentence explanation\n")

	return sb.String()
}

// BuildTaggingPrompt renders the smart-tagging request. category may be
// empty when the content has not been classified yet.
func BuildTaggingPrompt(input string, category model.CategoryName) string {
	var sb strings.Builder

	sb.WriteString("Generate smart tags for the following content.\n\nContent: ")
	sb.WriteString(truncate(input, taggingExcerptLen))
	if category != "" {
		sb.WriteString("\nCategory: ")
		sb.WriteString(string(category))
	}

	sb.WriteString("\n\nRespond with a JSON object containing:\n")
	sb.WriteString("- smart_tags: 5-10 specific, relevant tags\n")
	sb.WriteString("- confidence: integer 0-100\n")
	sb.WriteString("- semantic_groups: object grouping related tags, e.g. {\"technical\": [\"api\", \"database\"]}\n")
	sb.WriteString("- related_topics: 3-5 topics for further exploration\n")

	return sb.String()
}
