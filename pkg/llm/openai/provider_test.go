package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-docgen-be/pkg/llm"
)

func TestChatSendsAuthAndReturnsFirstChoice(t *testing.T) {
	var captured openaiChatRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"<div>hi</div>"}}]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("sk-test", server.URL, "gpt-4o-mini")

	got, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got != "<div>hi</div>" {
		t.Errorf("Chat() = %q", got)
	}
	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}
	if captured.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(captured.Messages))
	}
}

func TestChatSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[],"error":{"message":"rate limit","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("sk-test", server.URL, "gpt-4o-mini")

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hello"}})
	if err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestChatRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("sk-test", server.URL, "gpt-4o-mini")

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hello"}})
	if err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestDefaultBaseURL(t *testing.T) {
	provider := NewOpenAIProvider("sk-test", "", "gpt-4o-mini")
	if provider.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", provider.BaseURL, defaultBaseURL)
	}
}
