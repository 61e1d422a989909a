package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-docgen-be/internal/entity"
	"ai-docgen-be/internal/repository/specification"
	"ai-docgen-be/internal/repository/unitofwork"
	"ai-docgen-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.SectionRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	ctx := context.Background()

	t.Run("Document lifecycle", func(t *testing.T) {
		document := &entity.Document{
			Id:           uuid.New(),
			UserQuery:    "integration test document",
			TemplateType: "Case Study",
			CreatedAt:    time.Now(),
		}
		assert.NoError(t, uow.DocumentRepository().Create(ctx, document))
		defer uow.DocumentRepository().Delete(ctx, document.Id)

		found, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: document.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.False(t, found.ContentGenerated)
		}

		assert.NoError(t, uow.DocumentRepository().MarkContentGenerated(ctx, document.Id))
		found, err = uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: document.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.True(t, found.ContentGenerated)
		}
	})

	t.Run("Section upsert and ordered fetch", func(t *testing.T) {
		document := &entity.Document{
			Id:           uuid.New(),
			UserQuery:    "section ordering",
			TemplateType: "Documentation",
			CreatedAt:    time.Now(),
		}
		assert.NoError(t, uow.DocumentRepository().Create(ctx, document))
		defer uow.DocumentRepository().Delete(ctx, document.Id)

		first := &entity.Section{
			Id:          uuid.New(),
			DocumentId:  document.Id,
			SectionName: "Overview",
			Content:     "<div>v1</div>",
			Status:      "pending",
			Position:    0,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		second := &entity.Section{
			Id:          uuid.New(),
			DocumentId:  document.Id,
			SectionName: "Installation",
			Content:     "<div>install</div>",
			Status:      "pending",
			Position:    1,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		// Insert out of order to verify the fetch sorts by position.
		assert.NoError(t, uow.SectionRepository().Upsert(ctx, second))
		assert.NoError(t, uow.SectionRepository().Upsert(ctx, first))
		defer uow.SectionRepository().Delete(ctx, first.Id)
		defer uow.SectionRepository().Delete(ctx, second.Id)

		// Upsert with the same id replaces content.
		first.Content = "<div>v2</div>"
		first.Status = "completed"
		assert.NoError(t, uow.SectionRepository().Upsert(ctx, first))

		sections, err := uow.SectionRepository().FindAll(ctx,
			specification.ByDocumentID{DocumentID: document.Id},
			specification.OrderBy{Field: "position"},
		)
		assert.NoError(t, err)
		if assert.Len(t, sections, 2) {
			assert.Equal(t, "Overview", sections[0].SectionName)
			assert.Equal(t, "<div>v2</div>", sections[0].Content)
			assert.Equal(t, "completed", sections[0].Status)
			assert.Equal(t, "Installation", sections[1].SectionName)
		}
	})
}
