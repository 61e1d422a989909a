package mapper

import (
	"encoding/json"

	"ai-docgen-be/internal/entity"
	"ai-docgen-be/internal/model"

	"gorm.io/datatypes"
)

type SectionMapper struct{}

func NewSectionMapper() *SectionMapper {
	return &SectionMapper{}
}

func (m *SectionMapper) ToEntity(s *model.Section) *entity.Section {
	if s == nil {
		return nil
	}
	var feedback *entity.SectionFeedback
	if len(s.Feedback) > 0 {
		var fb entity.SectionFeedback
		if err := json.Unmarshal(s.Feedback, &fb); err == nil {
			feedback = &fb
		}
	}
	return &entity.Section{
		Id:          s.Id,
		DocumentId:  s.DocumentId,
		SectionName: s.SectionName,
		Content:     s.Content,
		Feedback:    feedback,
		Status:      s.Status,
		Position:    s.Position,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *SectionMapper) ToModel(s *entity.Section) *model.Section {
	if s == nil {
		return nil
	}
	var feedback datatypes.JSON
	if s.Feedback != nil {
		if raw, err := json.Marshal(s.Feedback); err == nil {
			feedback = raw
		}
	}
	return &model.Section{
		Id:          s.Id,
		DocumentId:  s.DocumentId,
		SectionName: s.SectionName,
		Content:     s.Content,
		Feedback:    feedback,
		Status:      s.Status,
		Position:    s.Position,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *SectionMapper) ToEntities(models []*model.Section) []*entity.Section {
	entities := make([]*entity.Section, 0, len(models))
	for _, s := range models {
		entities = append(entities, m.ToEntity(s))
	}
	return entities
}
