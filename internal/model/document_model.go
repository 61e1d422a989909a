package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserQuery        string    `gorm:"type:text;not null"`
	TemplateType     string    `gorm:"type:varchar(100);not null"`
	ContentGenerated bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
