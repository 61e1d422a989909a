package workflow

import (
	"context"
	"sync"

	"ai-docgen-be/pkg/llm"
)

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeLLM answers every Chat call through chatFn and counts calls.
type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	history [][]llm.Message
	chatFn  func(history []llm.Message) (string, error)
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	f.calls++
	f.history = append(f.history, history)
	fn := f.chatFn
	f.mu.Unlock()
	return fn(history)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type deliveredSection struct {
	DocumentID string
	SectionID  string
	Name       string
	Content    string
	IsEditable bool
}

// fakeSink records deliveries and optionally answers each section with a
// scripted feedback, simulating an instantly-responding client.
type fakeSink struct {
	mu        sync.Mutex
	sections  []deliveredSection
	streamEnd int
	complete  int

	feedback *FeedbackChannel
	script   []Feedback
	next     int
}

func (f *fakeSink) DeliverSection(documentID, sectionID, sectionName, contentHTML string, isEditable bool) error {
	f.mu.Lock()
	f.sections = append(f.sections, deliveredSection{
		DocumentID: documentID,
		SectionID:  sectionID,
		Name:       sectionName,
		Content:    contentHTML,
		IsEditable: isEditable,
	})
	var fb *Feedback
	if f.feedback != nil && f.next < len(f.script) {
		scripted := f.script[f.next]
		f.next++
		fb = &scripted
	}
	f.mu.Unlock()

	if fb != nil {
		fb.SectionID = sectionID
		f.feedback.Deliver(sectionID, *fb)
	}
	return nil
}

func (f *fakeSink) DeliverStreamEnd(documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamEnd++
	return nil
}

func (f *fakeSink) DeliverDocumentComplete(documentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complete++
	return nil
}

type recordedSection struct {
	SectionID string
	Name      string
	Content   string
	Position  int
}

type recordedFeedback struct {
	SectionID     string
	FeedbackType  string
	EditedContent string
}

type fakeRecorder struct {
	mu          sync.Mutex
	sections    []recordedSection
	feedbacks   []recordedFeedback
	completions int
}

func (f *fakeRecorder) RecordSection(ctx context.Context, documentID, sectionID, sectionName, content string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sections = append(f.sections, recordedSection{
		SectionID: sectionID,
		Name:      sectionName,
		Content:   content,
		Position:  position,
	})
	return nil
}

func (f *fakeRecorder) RecordFeedback(ctx context.Context, sectionID, feedbackType, editedContent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedbacks = append(f.feedbacks, recordedFeedback{
		SectionID:     sectionID,
		FeedbackType:  feedbackType,
		EditedContent: editedContent,
	})
	return nil
}

func (f *fakeRecorder) RecordCompletion(ctx context.Context, documentID string, finalContent []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completions++
	return nil
}

// staticPeers reports a fixed client presence.
type staticPeers struct{ present bool }

func (p staticPeers) HasClient(documentID string) bool { return p.present }
