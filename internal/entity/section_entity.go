package entity

import (
	"time"

	"github.com/google/uuid"
)

// SectionFeedback mirrors the feedback payload stored as JSONB on a section.
type SectionFeedback struct {
	FeedbackType  string `json:"feedback_type"`
	EditedContent string `json:"edited_content,omitempty"`
}

type Section struct {
	Id          uuid.UUID
	DocumentId  uuid.UUID
	SectionName string
	Content     string
	Feedback    *SectionFeedback
	Status      string // pending | completed
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
