package constant

// Feedback types accepted from the client for a streamed section.
const (
	FeedbackContinue   = "continue"
	FeedbackEdit       = "edit"
	FeedbackRegenerate = "regenerate"
	FeedbackEnd        = "end"
)

// Section statuses persisted alongside each section row.
const (
	SectionStatusPending   = "pending"
	SectionStatusCompleted = "completed"
)

// Outbound WebSocket message types.
const (
	WSTypeSectionContent   = "section_content"
	WSTypeStreamEnd        = "stream_end"
	WSTypeDocumentComplete = "document_complete"
)

// Inbound WebSocket message types.
const (
	WSTypeInit     = "init"
	WSTypeFeedback = "feedback"
)

// TemplateSections maps a template name to its predefined ordered section names.
var TemplateSections = map[string][]string{
	"Technical Blog": {
		"Title",
		"Introduction",
		"Background",
		"Key Features",
		"Use Cases",
		"Conclusion",
	},
	"Documentation": {
		"Heading",
		"Overview",
		"Installation",
		"Usage",
		"Configuration",
		"Troubleshooting",
		"FAQ",
	},
	"Case Study": {
		"Company Background",
		"Problem Statement",
		"Solution Implemented",
		"Results Achieved",
		"Lessons Learned",
	},
}

// DefaultSections is the planner fallback for unknown templates when the
// LLM cannot produce a usable section list.
var DefaultSections = []string{"Introduction", "Main Content", "Conclusion"}

// NonEditableKeywords marks sections the client must not edit directly.
// Matching is case-insensitive substring against the section name.
var NonEditableKeywords = []string{
	"code",
	"configuration",
	"installation",
	"setup",
	"technical",
	"api reference",
}
