package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes for the document generation lifecycle.
const (
	TypeDocumentCreated   = "DOCUMENT_CREATED"
	TypeSectionGenerated  = "SECTION_GENERATED"
	TypeDocumentCompleted = "DOCUMENT_COMPLETED"
)

func NewDocumentCreated(documentID, templateType string) Event {
	return BaseEvent{
		Type: TypeDocumentCreated,
		Data: map[string]interface{}{
			"document_id":   documentID,
			"template_type": templateType,
		},
		OccurredAt: time.Now(),
	}
}

func NewSectionGenerated(documentID, sectionID, sectionName string) Event {
	return BaseEvent{
		Type: TypeSectionGenerated,
		Data: map[string]interface{}{
			"document_id":  documentID,
			"section_id":   sectionID,
			"section_name": sectionName,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentCompleted(documentID string, sectionCount int) Event {
	return BaseEvent{
		Type: TypeDocumentCompleted,
		Data: map[string]interface{}{
			"document_id":   documentID,
			"section_count": sectionCount,
		},
		OccurredAt: time.Now(),
	}
}
