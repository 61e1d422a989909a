package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-docgen-be/internal/dto"
	"ai-docgen-be/internal/entity"
	"ai-docgen-be/internal/pkg/logger"
	"ai-docgen-be/internal/repository/memory"
	"ai-docgen-be/internal/repository/specification"
	"ai-docgen-be/internal/repository/unitofwork"
	"ai-docgen-be/internal/workflow"
	"ai-docgen-be/pkg/events"
	pktNats "ai-docgen-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.GenerateDocumentRequest) (*dto.GenerateDocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	VerifyRunToken(tokenStr string) (uuid.UUID, error)
	IsContentGenerated(ctx context.Context, id uuid.UUID) (bool, error)
	ReplaySections(ctx context.Context, id uuid.UUID) error
	RunSession(ctx context.Context, id uuid.UUID, runToken string) error
	SessionSnapshot(runToken string) (*workflow.SessionState, bool)
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	engine         *workflow.Engine
	sink           workflow.DeliverySink
	checkpoints    *memory.CheckpointRepository
	logger         logger.ILogger
	jwtSecret      string

	// document id -> struct{}; one running engine per document.
	activeSessions sync.Map
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	engine *workflow.Engine,
	sink workflow.DeliverySink,
	checkpoints *memory.CheckpointRepository,
	log logger.ILogger,
	jwtSecret string,
) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		engine:         engine,
		sink:           sink,
		checkpoints:    checkpoints,
		logger:         log,
		jwtSecret:      jwtSecret,
	}
}

func (c *documentService) Create(ctx context.Context, req *dto.GenerateDocumentRequest) (*dto.GenerateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document := entity.Document{
		Id:           uuid.New(),
		UserQuery:    req.UserQuery,
		TemplateType: req.SelectedTemplate,
		CreatedAt:    time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	runToken, err := c.issueRunToken(document.Id)
	if err != nil {
		return nil, err
	}

	if c.eventPublisher != nil {
		evt := events.NewDocumentCreated(document.Id.String(), document.TemplateType)
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.logger.Warn("DocumentService", "Failed to publish document created event", map[string]interface{}{
				"document_id": document.Id,
				"error":       err.Error(),
			})
		}
	}

	return &dto.GenerateDocumentResponse{
		DocumentId: document.Id,
		RunToken:   runToken,
	}, nil
}

func (c *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}

	sections, err := uow.SectionRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: id},
		specification.OrderBy{Field: "position"},
	)
	if err != nil {
		return nil, err
	}

	res := dto.ShowDocumentResponse{
		Id:               document.Id,
		UserQuery:        document.UserQuery,
		TemplateType:     document.TemplateType,
		ContentGenerated: document.ContentGenerated,
		CreatedAt:        document.CreatedAt,
		Sections:         make([]dto.SectionResponse, 0, len(sections)),
	}
	for _, s := range sections {
		res.Sections = append(res.Sections, dto.SectionResponse{
			Id:          s.Id,
			SectionName: s.SectionName,
			Content:     s.Content,
			Status:      s.Status,
			Position:    s.Position,
		})
	}
	return &res, nil
}

// issueRunToken signs a short-lived token scoped to one document. The
// WebSocket handshake presents it back to claim the generation session.
func (c *documentService) issueRunToken(documentId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"document_id": documentId.String(),
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(2 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.jwtSecret))
}

func (c *documentService) VerifyRunToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(c.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid run token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid run token claims")
	}
	documentIdStr, _ := claims["document_id"].(string)
	documentId, err := uuid.Parse(documentIdStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid document id in run token")
	}
	return documentId, nil
}

func (c *documentService) IsContentGenerated(ctx context.Context, id uuid.UUID) (bool, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return false, err
	}
	if document == nil {
		return false, fmt.Errorf("document %s not found", id)
	}
	return document.ContentGenerated, nil
}

// ReplaySections pushes previously persisted sections to the client in
// position order, then signals completion. Used when a client reconnects
// to a document whose content is already generated.
func (c *documentService) ReplaySections(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	sections, err := uow.SectionRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: id},
		specification.OrderBy{Field: "position"},
	)
	if err != nil {
		return err
	}

	documentId := id.String()
	for _, s := range sections {
		editable := workflow.IsSectionEditable(s.SectionName)
		if err := c.sink.DeliverSection(documentId, s.Id.String(), s.SectionName, s.Content, editable); err != nil {
			c.logger.Warn("DocumentService", "Failed to replay section", map[string]interface{}{
				"document_id": documentId,
				"section_id":  s.Id,
				"error":       err.Error(),
			})
		}
	}
	if err := c.sink.DeliverStreamEnd(documentId); err != nil {
		return err
	}
	return c.sink.DeliverDocumentComplete(documentId)
}

// RunSession drives the generation workflow for one document until it
// terminates. Blocks for the lifetime of the session; callers run it in
// its own goroutine. At most one engine runs per document: a reconnect
// while a session is live attaches to it through the hub instead of
// starting a second one.
func (c *documentService) RunSession(ctx context.Context, id uuid.UUID, runToken string) error {
	documentId := id.String()
	if _, running := c.activeSessions.LoadOrStore(documentId, struct{}{}); running {
		c.logger.Info("DocumentService", "Session already running, attaching client", map[string]interface{}{
			"document_id": documentId,
		})
		return nil
	}
	defer c.activeSessions.Delete(documentId)

	uow := c.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document %s not found", id)
	}

	state := workflow.NewSessionState(documentId, runToken, document.UserQuery, document.TemplateType)
	err = c.engine.Run(ctx, state)
	if c.checkpoints != nil {
		c.checkpoints.Delete(runToken)
	}
	return err
}

// SessionSnapshot returns the last checkpointed state of a live session,
// keyed by its run token. Meant for operator inspection of a stuck run.
func (c *documentService) SessionSnapshot(runToken string) (*workflow.SessionState, bool) {
	if c.checkpoints == nil {
		return nil, false
	}
	return c.checkpoints.Get(runToken)
}
