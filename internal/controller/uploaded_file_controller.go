package controller

import (
	"strconv"

	"chat-relay-be/internal/dto"
	"chat-relay-be/internal/pkg/serverutils"
	"chat-relay-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUploadedFileController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type uploadedFileController struct {
	fileService service.IUploadedFileService
}

func NewUploadedFileController(fileService service.IUploadedFileService) IUploadedFileController {
	return &uploadedFileController{
		fileService: fileService,
	}
}

func (c *uploadedFileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/uploaded-files")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

// List answers the data-grid protocol. The grid sends draw/start/length plus
// an optional search term and column ordering.
func (c *uploadedFileController) List(ctx *fiber.Ctx) error {
	req := dto.UploadedFileListRequest{
		Draw:        ctx.QueryInt("draw", 1),
		Start:       ctx.QueryInt("start", 0),
		Length:      ctx.QueryInt("length", 10),
		OrderColumn: ctx.QueryInt("order[0][column]", 0),
		OrderDir:    ctx.Query("order[0][dir]", "desc"),
		Search:      ctx.Query("search[value]"),
		Authority:   ctx.Query("authority"),
		Category:    ctx.Query("category"),
	}

	res, err := c.fileService.List(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *uploadedFileController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateUploadedFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.fileService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("File record created", res))
}

func (c *uploadedFileController) Show(ctx *fiber.Ctx) error {
	id, err := parseId(ctx)
	if err != nil {
		return err
	}

	res, err := c.fileService.GetById(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("File record retrieved", res))
}

func (c *uploadedFileController) Update(ctx *fiber.Ctx) error {
	id, err := parseId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateUploadedFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.fileService.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("File record updated", res))
}

func (c *uploadedFileController) Delete(ctx *fiber.Ctx) error {
	id, err := parseId(ctx)
	if err != nil {
		return err
	}

	if err := c.fileService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("File record deleted", nil))
}

func parseId(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return 0, serverutils.NewValidationError("Invalid id parameter")
	}
	return uint(id), nil
}
