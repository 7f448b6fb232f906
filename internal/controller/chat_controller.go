package controller

import (
	"chat-relay-be/internal/dto"
	"chat-relay-be/internal/pkg/serverutils"
	"chat-relay-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendPrompt(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	TestConnection(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", c.SendPrompt)
	h.Get("status", c.Status)
	h.Get("test-connection", c.TestConnection)
}

func (c *chatController) SendPrompt(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.chatService.SendPrompt(ctx.Context(), &req)
	if !res.Success {
		return ctx.Status(fiber.StatusInternalServerError).JSON(res)
	}

	return ctx.JSON(res)
}

func (c *chatController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(c.chatService.Status())
}

func (c *chatController) TestConnection(ctx *fiber.Ctx) error {
	res := c.chatService.TestConnection(ctx.Context())
	if !res.Success {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(res)
	}

	return ctx.JSON(res)
}
