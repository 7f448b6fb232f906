package controller

import (
	"io"

	"chat-relay-be/internal/dto"
	"chat-relay-be/internal/pkg/serverutils"
	"chat-relay-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Limits(ctx *fiber.Ctx) error
	TestConnection(ctx *fiber.Ctx) error
}

type uploadController struct {
	uploadService service.IFileUploadService
}

func NewUploadController(uploadService service.IFileUploadService) IUploadController {
	return &uploadController{
		uploadService: uploadService,
	}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/upload")
	h.Post("", c.Upload)
	h.Get("limits", c.Limits)
	h.Get("test-connection", c.TestConnection)
}

func (c *uploadController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("prompt")
	if err != nil {
		return serverutils.NewValidationError("File field 'prompt' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return serverutils.NewInternalError("Failed to read uploaded file", err.Error())
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return serverutils.NewInternalError("Failed to read uploaded file", err.Error())
	}

	req := dto.UploadRequest{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  content,
		Otoritas: ctx.FormValue("otoritas"),
		Category: ctx.FormValue("category"),
		TipeData: ctx.FormValue("tipe_data"),
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.uploadService.Upload(ctx.Context(), &req)
	if err != nil {
		return err
	}

	if !res.Success {
		return ctx.Status(fiber.StatusInternalServerError).JSON(res)
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *uploadController) Limits(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Upload limits retrieved", c.uploadService.GetUploadLimits()))
}

func (c *uploadController) TestConnection(ctx *fiber.Ctx) error {
	res := c.uploadService.TestConnection(ctx.Context())
	if !res.Success {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(res)
	}

	return ctx.JSON(res)
}
