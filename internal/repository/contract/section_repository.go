package contract

import (
	"context"

	"ai-docgen-be/internal/entity"
	"ai-docgen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SectionRepository interface {
	// Upsert inserts the section or replaces the row with the same id.
	Upsert(ctx context.Context, section *entity.Section) error
	Update(ctx context.Context, section *entity.Section) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Section, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Section, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
