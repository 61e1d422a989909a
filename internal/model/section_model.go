package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Section struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	DocumentId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	SectionName string         `gorm:"type:varchar(255);not null"`
	Content     string         `gorm:"type:text"`
	Feedback    datatypes.JSON `gorm:"type:jsonb"`
	Status      string         `gorm:"type:varchar(32);not null;default:'pending'"`
	Position    int            `gorm:"not null;default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (Section) TableName() string {
	return "sections"
}
