package workflow

import (
	"strings"

	"ai-docgen-be/internal/constant"
)

// Phase identifies the current step of the generation workflow.
type Phase int

const (
	PhasePlan Phase = iota
	PhaseGenerate
	PhaseStream
	PhaseAwaitFeedback
	PhaseApplyFeedback
	PhaseDecide
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhasePlan:
		return "plan"
	case PhaseGenerate:
		return "generate"
	case PhaseStream:
		return "stream"
	case PhaseAwaitFeedback:
		return "await_feedback"
	case PhaseApplyFeedback:
		return "apply_feedback"
	case PhaseDecide:
		return "decide"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// Feedback is a human decision about a just-generated section.
type Feedback struct {
	SectionID     string `json:"section_id"`
	FeedbackType  string `json:"feedback_type"`
	EditedContent string `json:"edited_content,omitempty"`
}

// GeneratedSection is one live section of the in-progress document.
// Ids are assigned at generation time; regeneration produces a new id.
type GeneratedSection struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// SessionState is the full state of one document's generation session.
// It is owned exclusively by the engine running the session; phases mutate
// it only through the engine's step methods.
type SessionState struct {
	DocumentID   string `json:"document_id"`
	RunToken     string `json:"run_token"`
	Query        string `json:"query"`
	TemplateType string `json:"template_type"`

	SectionNames        []string           `json:"section_names"`
	CurrentSectionIndex int                `json:"current_section_index"`
	Sections            []GeneratedSection `json:"sections"`

	// Scratch slots for the section currently in flight.
	CurrentSectionID      string `json:"current_section_id"`
	CurrentSectionContent string `json:"current_section_content"`

	Feedback         *Feedback `json:"feedback,omitempty"`
	LastFeedbackType string    `json:"last_feedback_type"`

	Completed    bool     `json:"completed"`
	FinalContent []string `json:"final_content"`
}

// NewSessionState creates the state for a fresh session.
func NewSessionState(documentID, runToken, query, templateType string) *SessionState {
	return &SessionState{
		DocumentID:   documentID,
		RunToken:     runToken,
		Query:        query,
		TemplateType: templateType,
	}
}

// Clone returns a deep copy safe to hand outside the owning session while
// the engine keeps mutating the original.
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.SectionNames = append([]string(nil), s.SectionNames...)
	c.Sections = append([]GeneratedSection(nil), s.Sections...)
	c.FinalContent = append([]string(nil), s.FinalContent...)
	if s.Feedback != nil {
		fb := *s.Feedback
		c.Feedback = &fb
	}
	return &c
}

// SectionByID returns the live section entry with the given id, or nil.
func (s *SessionState) SectionByID(id string) *GeneratedSection {
	for i := range s.Sections {
		if s.Sections[i].ID == id {
			return &s.Sections[i]
		}
	}
	return nil
}

// AssembleFinalContent collects the HTML of every live section, in
// generation order, into FinalContent.
func (s *SessionState) AssembleFinalContent() {
	final := make([]string, 0, len(s.Sections))
	for _, section := range s.Sections {
		if section.Content != "" {
			final = append(final, section.Content)
		}
	}
	s.FinalContent = final
}

// IsSectionEditable reports whether the client may edit a section directly.
// Sections whose name contains a technical keyword are locked.
func IsSectionEditable(sectionName string) bool {
	lower := strings.ToLower(sectionName)
	for _, keyword := range constant.NonEditableKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	return true
}
