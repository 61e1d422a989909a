package unitofwork

import (
	"context"

	"ai-docgen-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	SectionRepository() contract.SectionRepository
}
