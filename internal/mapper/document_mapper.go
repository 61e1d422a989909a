package mapper

import (
	"ai-docgen-be/internal/entity"
	"ai-docgen-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:               d.Id,
		UserQuery:        d.UserQuery,
		TemplateType:     d.TemplateType,
		ContentGenerated: d.ContentGenerated,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:               d.Id,
		UserQuery:        d.UserQuery,
		TemplateType:     d.TemplateType,
		ContentGenerated: d.ContentGenerated,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}
