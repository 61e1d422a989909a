package workflow

import (
	"testing"
)

func TestIsSectionEditable(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Introduction", true},
		{"Use Cases", true},
		{"Company Background", true},
		{"Code Sample", false},
		{"Configuration", false},
		{"Installation", false},
		{"Setup Guide", false},
		{"Technical Overview", false},
		{"API Reference", false},
		{"api reference", false},
		{"INSTALLATION", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSectionEditable(tt.name); got != tt.want {
				t.Errorf("IsSectionEditable(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestAssembleFinalContentSkipsEmptySections(t *testing.T) {
	state := NewSessionState("doc-1", "run-1", "q", "Case Study")
	state.Sections = []GeneratedSection{
		{ID: "a", Name: "Intro", Content: "<div>1</div>"},
		{ID: "b", Name: "Body", Content: ""},
		{ID: "c", Name: "Outro", Content: "<div>3</div>"},
	}

	state.AssembleFinalContent()

	if len(state.FinalContent) != 2 {
		t.Fatalf("final content = %d, want 2", len(state.FinalContent))
	}
	if state.FinalContent[0] != "<div>1</div>" || state.FinalContent[1] != "<div>3</div>" {
		t.Errorf("final content order wrong: %v", state.FinalContent)
	}
}

func TestSectionByID(t *testing.T) {
	state := NewSessionState("doc-1", "run-1", "q", "Case Study")
	state.Sections = []GeneratedSection{
		{ID: "a", Name: "Intro"},
		{ID: "b", Name: "Body"},
	}

	if s := state.SectionByID("b"); s == nil || s.Name != "Body" {
		t.Errorf("SectionByID(b) = %+v", s)
	}
	if s := state.SectionByID("missing"); s != nil {
		t.Errorf("SectionByID(missing) = %+v, want nil", s)
	}

	// Returned pointer mutates the live entry.
	state.SectionByID("a").Content = "updated"
	if state.Sections[0].Content != "updated" {
		t.Error("SectionByID returned a copy")
	}
}
