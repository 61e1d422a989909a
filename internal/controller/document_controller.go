package controller

import (
	"ai-docgen-be/internal/dto"
	"ai-docgen-be/internal/pkg/serverutils"
	"ai-docgen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SessionSnapshot(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("generate", c.Generate)
	h.Get("session", c.SessionSnapshot)
	h.Get(":id", c.Show)
}

func (c *documentController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document created", res))
}

func (c *documentController) SessionSnapshot(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing run token")
	}

	state, ok := c.documentService.SessionSnapshot(token)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "No active session for token")
	}

	return ctx.JSON(serverutils.SuccessResponse("Session state", state))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid document id")
	}

	res, err := c.documentService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Document not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Document details", res))
}
