package workflow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"ai-docgen-be/internal/constant"
	"ai-docgen-be/pkg/llm"
)

func htmlFor(section string) string {
	return fmt.Sprintf("<div data-section=%q><p>Content for %s</p></div>", section, section)
}

// echoLLM answers planner calls with a fixed list and writer calls with
// deterministic HTML derived from the requested section.
func echoLLM(plannerResponse string) *fakeLLM {
	return &fakeLLM{chatFn: func(history []llm.Message) (string, error) {
		user := history[len(history)-1].Content
		if strings.HasPrefix(user, "Template: ") {
			return plannerResponse, nil
		}
		// Writer prompt ends with "Section: <name>".
		if i := strings.Index(user, "Section: "); i >= 0 {
			return htmlFor(user[i+len("Section: "):]), nil
		}
		return "", fmt.Errorf("unexpected prompt: %q", user)
	}}
}

func newTestEngine(script []Feedback, provider *fakeLLM, timeout time.Duration) (*Engine, *fakeSink, *fakeRecorder) {
	fc := NewFeedbackChannel(staticPeers{present: true})
	sink := &fakeSink{feedback: fc, script: script}
	recorder := &fakeRecorder{}

	engine := NewEngine(
		NewSectionPlanner(provider, nopLogger{}),
		NewContentGenerator(provider, nopLogger{}),
		fc,
		sink,
		recorder,
		nil,
		nopLogger{},
		timeout,
	)
	return engine, sink, recorder
}

func continueN(n int) []Feedback {
	script := make([]Feedback, n)
	for i := range script {
		script[i] = Feedback{FeedbackType: constant.FeedbackContinue}
	}
	return script
}

func TestEngineGeneratesAllSectionsOnContinue(t *testing.T) {
	provider := echoLLM("")
	engine, sink, recorder := newTestEngine(continueN(5), provider, time.Second)

	state := NewSessionState("doc-1", "run-1", "ACME case study", "Case Study")
	if err := engine.Run(context.Background(), state); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !state.Completed {
		t.Error("state not completed")
	}
	if len(state.Sections) != 5 {
		t.Fatalf("sections = %d, want 5", len(state.Sections))
	}
	if len(state.FinalContent) != 5 {
		t.Errorf("final content = %d, want 5", len(state.FinalContent))
	}
	wantNames := constant.TemplateSections["Case Study"]
	for i, s := range state.Sections {
		if s.Name != wantNames[i] {
			t.Errorf("section[%d] = %q, want %q", i, s.Name, wantNames[i])
		}
		if s.ID == "" {
			t.Errorf("section[%d] missing id", i)
		}
	}

	if len(sink.sections) != 5 {
		t.Errorf("streamed sections = %d, want 5", len(sink.sections))
	}
	if sink.streamEnd != 1 {
		t.Errorf("stream end signals = %d, want 1", sink.streamEnd)
	}
	if sink.complete != 1 {
		t.Errorf("document complete signals = %d, want 1", sink.complete)
	}
	if recorder.completions != 1 {
		t.Errorf("recorded completions = %d, want 1", recorder.completions)
	}
	for i, rs := range recorder.sections {
		if rs.Position != i {
			t.Errorf("recorded position[%d] = %d", i, rs.Position)
		}
	}
}

func TestEngineRegenerateReplacesCurrentSection(t *testing.T) {
	provider := echoLLM("")
	script := []Feedback{
		{FeedbackType: constant.FeedbackContinue},
		{FeedbackType: constant.FeedbackRegenerate},
		{FeedbackType: constant.FeedbackContinue},
		{FeedbackType: constant.FeedbackContinue},
		{FeedbackType: constant.FeedbackContinue},
		{FeedbackType: constant.FeedbackContinue},
	}
	engine, sink, _ := newTestEngine(script, provider, time.Second)

	state := NewSessionState("doc-1", "run-1", "ACME case study", "Case Study")
	if err := engine.Run(context.Background(), state); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Planner is static for Case Study, so every LLM call is a writer call:
	// five sections plus one regeneration.
	if provider.callCount() != 6 {
		t.Errorf("LLM calls = %d, want 6", provider.callCount())
	}
	if len(sink.sections) != 6 {
		t.Errorf("streamed sections = %d, want 6", len(sink.sections))
	}
	if sink.sections[1].Name != "Problem Statement" || sink.sections[2].Name != "Problem Statement" {
		t.Errorf("expected Problem Statement streamed twice, got %q then %q",
			sink.sections[1].Name, sink.sections[2].Name)
	}
	if sink.sections[1].SectionID == sink.sections[2].SectionID {
		t.Error("regenerated section reused the old id")
	}

	// The superseded section must not survive into the final document.
	if len(state.Sections) != 5 {
		t.Fatalf("live sections = %d, want 5", len(state.Sections))
	}
	if len(state.FinalContent) != 5 {
		t.Errorf("final content = %d, want 5", len(state.FinalContent))
	}
}

func TestEngineEndStopsEarly(t *testing.T) {
	provider := echoLLM("")
	script := []Feedback{{FeedbackType: constant.FeedbackEnd}}
	engine, sink, recorder := newTestEngine(script, provider, time.Second)

	state := NewSessionState("doc-1", "run-1", "ACME case study", "Case Study")
	if err := engine.Run(context.Background(), state); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !state.Completed {
		t.Error("state not completed")
	}
	if len(state.Sections) != 1 {
		t.Errorf("sections = %d, want 1", len(state.Sections))
	}
	if len(state.FinalContent) != 1 {
		t.Errorf("final content = %d, want 1", len(state.FinalContent))
	}
	// Early end is not a completed document.
	if sink.complete != 0 {
		t.Errorf("document complete signals = %d, want 0", sink.complete)
	}
	if recorder.completions != 0 {
		t.Errorf("recorded completions = %d, want 0", recorder.completions)
	}
}

func TestEngineTimeoutTerminatesSession(t *testing.T) {
	provider := echoLLM("")
	// No scripted feedback: the first wait times out.
	engine, _, _ := newTestEngine(nil, provider, 20*time.Millisecond)

	state := NewSessionState("doc-1", "run-1", "ACME case study", "Case Study")
	done := make(chan error, 1)
	go func() { done <- engine.Run(context.Background(), state) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not terminate after feedback timeout")
	}

	if !state.Completed {
		t.Error("state not completed")
	}
	if len(state.Sections) != 1 {
		t.Errorf("sections = %d, want 1", len(state.Sections))
	}
}

func TestEngineEditOverwritesContentAndAdvances(t *testing.T) {
	provider := echoLLM("")
	edited := "<div data-section=\"Company Background\"><p>Hand-tuned copy</p></div>"
	script := []Feedback{
		{FeedbackType: constant.FeedbackEdit, EditedContent: edited},
		{FeedbackType: constant.FeedbackEnd},
	}
	engine, _, recorder := newTestEngine(script, provider, time.Second)

	state := NewSessionState("doc-1", "run-1", "ACME case study", "Case Study")
	if err := engine.Run(context.Background(), state); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Edit advances to the next section, then end terminates.
	if len(state.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(state.Sections))
	}
	if state.Sections[0].Content != edited {
		t.Errorf("edited content not applied: %q", state.Sections[0].Content)
	}
	if state.FinalContent[0] != edited {
		t.Errorf("final content missing edit: %q", state.FinalContent[0])
	}

	if len(recorder.feedbacks) != 2 {
		t.Fatalf("recorded feedbacks = %d, want 2", len(recorder.feedbacks))
	}
	if recorder.feedbacks[0].FeedbackType != constant.FeedbackEdit || recorder.feedbacks[0].EditedContent != edited {
		t.Errorf("edit feedback not recorded: %+v", recorder.feedbacks[0])
	}
}

func TestEngineMarksTechnicalSectionsNonEditable(t *testing.T) {
	provider := echoLLM(`["Introduction", "API Reference"]`)
	engine, sink, _ := newTestEngine(continueN(2), provider, time.Second)

	state := NewSessionState("doc-1", "run-1", "api docs", "Custom Report")
	if err := engine.Run(context.Background(), state); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(sink.sections) != 2 {
		t.Fatalf("streamed sections = %d, want 2", len(sink.sections))
	}
	if !sink.sections[0].IsEditable {
		t.Error("Introduction should be editable")
	}
	if sink.sections[1].IsEditable {
		t.Error("API Reference should not be editable")
	}
}

func TestEngineAcceptsEmptyGeneratedContent(t *testing.T) {
	// A reply of bare fence artifacts strips to the empty string. That is
	// a valid generation result and must flow through Stream like any
	// other, not be mistaken for corrupt state and re-planned.
	provider := &fakeLLM{chatFn: func(history []llm.Message) (string, error) {
		return "```html\n```", nil
	}}
	engine, sink, _ := newTestEngine(continueN(5), provider, time.Second)

	state := NewSessionState("doc-1", "run-1", "ACME case study", "Case Study")
	done := make(chan error, 1)
	go func() { done <- engine.Run(context.Background(), state) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not terminate on empty generated content")
	}

	if !state.Completed {
		t.Error("state not completed")
	}
	if provider.callCount() != 5 {
		t.Errorf("LLM calls = %d, want 5 (one per section, no re-planning)", provider.callCount())
	}
	if len(sink.sections) != 5 {
		t.Errorf("streamed sections = %d, want 5", len(sink.sections))
	}
	for i, s := range sink.sections {
		if s.Content != "" {
			t.Errorf("section[%d] content = %q, want empty", i, s.Content)
		}
	}
	// Empty sections carry no content into the final document.
	if len(state.FinalContent) != 0 {
		t.Errorf("final content = %d, want 0", len(state.FinalContent))
	}
}

func TestEnginePlaceholderOnGenerationFailure(t *testing.T) {
	provider := &fakeLLM{chatFn: func(history []llm.Message) (string, error) {
		return "", fmt.Errorf("model unavailable")
	}}
	script := []Feedback{{FeedbackType: constant.FeedbackEnd}}
	engine, sink, _ := newTestEngine(script, provider, time.Second)

	state := NewSessionState("doc-1", "run-1", "ACME case study", "Case Study")
	if err := engine.Run(context.Background(), state); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(sink.sections) != 1 {
		t.Fatalf("streamed sections = %d, want 1", len(sink.sections))
	}
	want := PlaceholderSection("Company Background")
	if sink.sections[0].Content != want {
		t.Errorf("streamed content = %q, want placeholder %q", sink.sections[0].Content, want)
	}
}
