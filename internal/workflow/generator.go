package workflow

import (
	"context"
	"fmt"
	"strings"

	"ai-docgen-be/internal/constant"
	"ai-docgen-be/internal/pkg/logger"
	"ai-docgen-be/pkg/llm"
)

// ContentGenerator produces the HTML for a single named section. It is a
// pure function of (query, sectionName) plus the LLM call: no session state,
// no I/O beyond the provider. Generate never returns an error; failures
// degrade to a placeholder section the workflow treats as valid content.
type ContentGenerator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewContentGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *ContentGenerator {
	return &ContentGenerator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (g *ContentGenerator) Generate(ctx context.Context, query, sectionName string) string {
	history := []llm.Message{
		{Role: "system", Content: constant.SectionWriterPrompt},
		{Role: "user", Content: fmt.Sprintf("Document Query: %s\nSection: %s", query, sectionName)},
	}

	raw, err := g.llmProvider.Chat(ctx, history)
	if err != nil {
		g.logger.Error("ContentGenerator", "Section generation failed", map[string]interface{}{
			"section": sectionName,
			"error":   err.Error(),
		})
		return PlaceholderSection(sectionName)
	}

	return StripCodeFences(raw)
}

// StripCodeFences removes Markdown fence artifacts the model sometimes
// wraps around HTML output.
func StripCodeFences(content string) string {
	content = strings.ReplaceAll(content, "```html", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// PlaceholderSection is the deterministic fallback shown when generation
// fails. The user can still regenerate it through normal feedback.
func PlaceholderSection(sectionName string) string {
	return fmt.Sprintf("<div data-section=%q><p>Error generating content. Please try again.</p></div>", sectionName)
}
