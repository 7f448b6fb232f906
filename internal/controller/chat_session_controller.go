package controller

import (
	"chat-relay-be/internal/dto"
	"chat-relay-be/internal/pkg/serverutils"
	"chat-relay-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type IChatSessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type chatSessionController struct {
	sessionService service.IChatSessionService
}

func NewChatSessionController(sessionService service.IChatSessionService) IChatSessionController {
	return &chatSessionController{
		sessionService: sessionService,
	}
}

func (c *chatSessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat-sessions")
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/messages", c.SendMessage)

	// Flat paths so :id never swallows them.
	r.Get("/chat-sessions-search", c.Search)
	r.Get("/chat-sessions-stats", c.Stats)
}

func (c *chatSessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Chat session created", res))
}

func (c *chatSessionController) List(ctx *fiber.Ctx) error {
	userId := optionalQuery(ctx, "user_id")
	limit := clampLimit(ctx.QueryInt("limit", defaultSearchLimit))

	res, err := c.sessionService.GetUserSessions(ctx.Context(), userId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat sessions retrieved", res))
}

func (c *chatSessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.sessionService.GetSession(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat session retrieved", res))
}

func (c *chatSessionController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.UpdateSession(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat session updated", res))
}

func (c *chatSessionController) Delete(ctx *fiber.Ctx) error {
	if err := c.sessionService.DeleteSession(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat session deleted", nil))
}

func (c *chatSessionController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendSessionMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.SendMessage(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	// Upstream failure after the user message was saved is reported as a
	// server error, with the persisted user message in the body.
	if !res.Success {
		return ctx.Status(fiber.StatusInternalServerError).JSON(res)
	}

	return ctx.JSON(res)
}

func (c *chatSessionController) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return serverutils.NewValidationError("Query parameter 'q' is required")
	}

	userId := optionalQuery(ctx, "user_id")
	limit := clampLimit(ctx.QueryInt("limit", defaultSearchLimit))

	res, err := c.sessionService.SearchSessions(ctx.Context(), query, userId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search completed", res))
}

func (c *chatSessionController) Stats(ctx *fiber.Ctx) error {
	userId := optionalQuery(ctx, "user_id")

	res, err := c.sessionService.GetSessionStats(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session stats retrieved", res))
}

func optionalQuery(ctx *fiber.Ctx, key string) *string {
	v := ctx.Query(key)
	if v == "" {
		return nil
	}
	return &v
}

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}
