package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id               uuid.UUID
	UserQuery        string
	TemplateType     string
	ContentGenerated bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
