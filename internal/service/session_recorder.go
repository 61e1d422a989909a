package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-docgen-be/internal/constant"
	"ai-docgen-be/internal/dto"
	"ai-docgen-be/internal/entity"
	"ai-docgen-be/internal/pkg/logger"
	"ai-docgen-be/internal/repository/specification"
	"ai-docgen-be/internal/repository/unitofwork"
	"ai-docgen-be/internal/workflow"
	"ai-docgen-be/pkg/events"
	pktNats "ai-docgen-be/pkg/nats"

	"github.com/google/uuid"
)

// sessionRecorder is the workflow engine's persistence callback. Section
// rows travel through the async publisher; feedback and completion write
// to the database directly.
type sessionRecorder struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewSessionRecorder(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) workflow.SessionRecorder {
	return &sessionRecorder{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (c *sessionRecorder) RecordSection(ctx context.Context, documentID, sectionID, sectionName, content string, position int) error {
	docId, err := uuid.Parse(documentID)
	if err != nil {
		return err
	}
	secId, err := uuid.Parse(sectionID)
	if err != nil {
		return err
	}

	msgPayload := dto.PublishSectionMessage{
		DocumentId:  docId,
		SectionId:   secId,
		SectionName: sectionName,
		Content:     content,
		Position:    position,
		Status:      constant.SectionStatusPending,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return err
	}
	if err := c.publisherService.Publish(ctx, msgJson); err != nil {
		return err
	}

	if c.eventPublisher != nil {
		evt := events.NewSectionGenerated(documentID, sectionID, sectionName)
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.logger.Warn("SessionRecorder", "Failed to publish section generated event", map[string]interface{}{
				"section_id": sectionID,
				"error":      err.Error(),
			})
		}
	}
	return nil
}

func (c *sessionRecorder) RecordFeedback(ctx context.Context, sectionID, feedbackType, editedContent string) error {
	secId, err := uuid.Parse(sectionID)
	if err != nil {
		return err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	section, err := uow.SectionRepository().FindOne(ctx, specification.ByID{ID: secId})
	if err != nil {
		return err
	}
	if section == nil {
		// Persistence is async; feedback can land before the section row.
		c.logger.Warn("SessionRecorder", "Feedback for unknown section", map[string]interface{}{
			"section_id": sectionID,
		})
		return nil
	}

	section.Feedback = &entity.SectionFeedback{
		FeedbackType:  feedbackType,
		EditedContent: editedContent,
	}
	if feedbackType == constant.FeedbackEdit && editedContent != "" {
		section.Content = editedContent
	}
	if feedbackType == constant.FeedbackRegenerate {
		section.Status = constant.SectionStatusPending
	} else {
		section.Status = constant.SectionStatusCompleted
	}
	section.UpdatedAt = time.Now()

	return uow.SectionRepository().Update(ctx, section)
}

func (c *sessionRecorder) RecordCompletion(ctx context.Context, documentID string, finalContent []string) error {
	docId, err := uuid.Parse(documentID)
	if err != nil {
		return err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().MarkContentGenerated(ctx, docId); err != nil {
		return err
	}

	if c.eventPublisher != nil {
		evt := events.NewDocumentCompleted(documentID, len(finalContent))
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.logger.Warn("SessionRecorder", "Failed to publish document completed event", map[string]interface{}{
				"document_id": documentID,
				"error":       err.Error(),
			})
		}
	}
	return nil
}
