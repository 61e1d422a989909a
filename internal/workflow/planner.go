package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-docgen-be/internal/constant"
	"ai-docgen-be/internal/pkg/logger"
	"ai-docgen-be/pkg/llm"
)

// SectionPlanner resolves a template type to an ordered list of section
// names. Known templates are a static lookup; unknown templates are planned
// by the LLM with a guaranteed fallback. Plan never returns an error.
type SectionPlanner struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewSectionPlanner(llmProvider llm.LLMProvider, log logger.ILogger) *SectionPlanner {
	return &SectionPlanner{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (p *SectionPlanner) Plan(ctx context.Context, templateType, query string) []string {
	if sections, ok := constant.TemplateSections[templateType]; ok {
		p.logger.Info("SectionPlanner", "Using template sections", map[string]interface{}{
			"template": templateType,
			"sections": sections,
		})
		out := make([]string, len(sections))
		copy(out, sections)
		return out
	}

	sections, err := p.planWithLLM(ctx, templateType, query)
	if err != nil || len(sections) == 0 {
		p.logger.Warn("SectionPlanner", "Falling back to default sections", map[string]interface{}{
			"template": templateType,
			"error":    fmt.Sprintf("%v", err),
		})
		out := make([]string, len(constant.DefaultSections))
		copy(out, constant.DefaultSections)
		return out
	}

	p.logger.Info("SectionPlanner", "Generated sections", map[string]interface{}{
		"template": templateType,
		"sections": sections,
	})
	return sections
}

func (p *SectionPlanner) planWithLLM(ctx context.Context, templateType, query string) ([]string, error) {
	history := []llm.Message{
		{Role: "system", Content: constant.MainSystemPrompt + constant.SectionPlannerPrompt},
		{Role: "user", Content: fmt.Sprintf("Template: %s\nQuery: %s", templateType, query)},
	}

	raw, err := p.llmProvider.Chat(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("plan sections: %w", err)
	}

	sections, err := parseSectionList(raw)
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// parseSectionList extracts a list of section names from a model response.
// Accepts a bare JSON array, an array embedded in surrounding prose, or a
// fenced code block around either.
func parseSectionList(raw string) ([]string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	// Narrow to the outermost bracket pair when the model wrapped the
	// array in prose.
	if start := strings.Index(cleaned, "["); start >= 0 {
		if end := strings.LastIndex(cleaned, "]"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var sections []string
	if err := json.Unmarshal([]byte(cleaned), &sections); err != nil {
		// Python-style list with single quotes is close enough to salvage.
		relaxed := strings.ReplaceAll(cleaned, "'", "\"")
		if err2 := json.Unmarshal([]byte(relaxed), &sections); err2 != nil {
			return nil, fmt.Errorf("response is not a list of section names: %w", err)
		}
	}

	out := make([]string, 0, len(sections))
	for _, s := range sections {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("response contained no usable section names")
	}
	return out, nil
}
