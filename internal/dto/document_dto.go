package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateDocumentRequest struct {
	UserQuery        string `json:"userQuery" validate:"required"`
	SelectedTemplate string `json:"selectedTemplate" validate:"required"`
}

type GenerateDocumentResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	RunToken   string    `json:"run_token"`
}

type SectionResponse struct {
	Id          uuid.UUID `json:"id"`
	SectionName string    `json:"section_name"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	Position    int       `json:"position"`
}

type ShowDocumentResponse struct {
	Id               uuid.UUID         `json:"id"`
	UserQuery        string            `json:"user_query"`
	TemplateType     string            `json:"template_type"`
	ContentGenerated bool              `json:"content_generated"`
	CreatedAt        time.Time         `json:"created_at"`
	Sections         []SectionResponse `json:"sections"`
}

// PublishSectionMessage is the watermill payload carried from the workflow
// engine to the persistence consumer.
type PublishSectionMessage struct {
	DocumentId  uuid.UUID `json:"document_id"`
	SectionId   uuid.UUID `json:"section_id"`
	SectionName string    `json:"section_name"`
	Content     string    `json:"content"`
	Position    int       `json:"position"`
	Status      string    `json:"status"`
}
