package handler

import (
	"context"

	"ai-docgen-be/internal/pkg/logger"
	"ai-docgen-be/internal/service"
	internalWS "ai-docgen-be/internal/websocket"
	"ai-docgen-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type DocumentWSHandler struct {
	documentService service.IDocumentService
	hub             *internalWS.Hub
	feedback        *workflow.FeedbackChannel
	logger          logger.ILogger
}

func NewDocumentWSHandler(
	documentService service.IDocumentService,
	hub *internalWS.Hub,
	feedback *workflow.FeedbackChannel,
	log logger.ILogger,
) *DocumentWSHandler {
	return &DocumentWSHandler{
		documentService: documentService,
		hub:             hub,
		feedback:        feedback,
		logger:          log,
	}
}

func (h *DocumentWSHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/:document_id", h.ServeWs)
}

// ServeWs upgrades the connection and drives one document's generation
// session over it.
func (h *DocumentWSHandler) ServeWs(c *fiber.Ctx) error {
	// Token source priority: query param (browser), then Authorization header.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	tokenDocumentId, err := h.documentService.VerifyRunToken(tokenStr)
	if err != nil {
		h.logger.Warn("DocumentWSHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	documentId, err := uuid.Parse(c.Params("document_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document id"})
	}
	if tokenDocumentId != documentId {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Token not issued for this document"})
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("DocumentWSHandler", "Starting WebSocket session", map[string]interface{}{"document_id": documentId})

		client := internalWS.NewClient(h.hub, conn, documentId.String(), h.feedback)
		client.Register()
		h.startSession(documentId, tokenStr)
		client.Run()

		h.logger.Info("DocumentWSHandler", "WebSocket session ended", map[string]interface{}{"document_id": documentId})
	})(c)
}

// startSession kicks off generation or replay in the background. The
// session context is detached from the request: the engine handles a
// vanished peer through its own feedback timeouts.
func (h *DocumentWSHandler) startSession(documentId uuid.UUID, runToken string) {
	ctx := context.Background()

	generated, err := h.documentService.IsContentGenerated(ctx, documentId)
	if err != nil {
		h.logger.Error("DocumentWSHandler", "Failed to check document state", map[string]interface{}{
			"document_id": documentId,
			"error":       err.Error(),
		})
		return
	}

	if generated {
		go func() {
			if err := h.documentService.ReplaySections(ctx, documentId); err != nil {
				h.logger.Error("DocumentWSHandler", "Replay failed", map[string]interface{}{
					"document_id": documentId,
					"error":       err.Error(),
				})
			}
		}()
		return
	}

	go func() {
		if err := h.documentService.RunSession(ctx, documentId, runToken); err != nil {
			h.logger.Error("DocumentWSHandler", "Generation session aborted", map[string]interface{}{
				"document_id": documentId,
				"error":       err.Error(),
			})
		}
	}()
}
