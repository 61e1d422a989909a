package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-docgen-be/pkg/llm"
)

func TestGenerateStripsCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "clean html untouched",
			response: `<div data-section="Intro"><p>Hello</p></div>`,
			want:     `<div data-section="Intro"><p>Hello</p></div>`,
		},
		{
			name:     "html fence removed",
			response: "```html\n<div><p>Hello</p></div>\n```",
			want:     "<div><p>Hello</p></div>",
		},
		{
			name:     "bare fence removed",
			response: "```\n<div><p>Hello</p></div>\n```",
			want:     "<div><p>Hello</p></div>",
		},
		{
			name:     "surrounding whitespace trimmed",
			response: "  \n<div><p>Hello</p></div>\n  ",
			want:     "<div><p>Hello</p></div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeLLM{chatFn: func(history []llm.Message) (string, error) {
				return tt.response, nil
			}}
			generator := NewContentGenerator(provider, nopLogger{})

			got := generator.Generate(context.Background(), "query", "Intro")
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateReturnsPlaceholderOnError(t *testing.T) {
	provider := &fakeLLM{chatFn: func(history []llm.Message) (string, error) {
		return "", errors.New("model unavailable")
	}}
	generator := NewContentGenerator(provider, nopLogger{})

	got := generator.Generate(context.Background(), "query", "Key Features")

	if !strings.Contains(got, `data-section="Key Features"`) {
		t.Errorf("placeholder missing section attribute: %q", got)
	}
	if !strings.Contains(got, "Error generating content") {
		t.Errorf("placeholder missing error text: %q", got)
	}
}

func TestGeneratePassesSectionInPrompt(t *testing.T) {
	provider := &fakeLLM{chatFn: func(history []llm.Message) (string, error) {
		if len(history) != 2 {
			t.Fatalf("history length = %d, want 2", len(history))
		}
		if !strings.Contains(history[1].Content, "Section: Use Cases") {
			t.Errorf("user prompt missing section name: %q", history[1].Content)
		}
		return "<div>ok</div>", nil
	}}
	generator := NewContentGenerator(provider, nopLogger{})

	generator.Generate(context.Background(), "write about caching", "Use Cases")
}
