package controller

import (
	"errors"
	"fmt"

	"md-export-be/internal/dto"
	"md-export-be/internal/pkg/serverutils"
	"md-export-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	Docx(ctx *fiber.Ctx) error
	Pdf(ctx *fiber.Ctx) error
	Html(ctx *fiber.Ctx) error
	Markdown(ctx *fiber.Ctx) error
}

type exportController struct {
	exportService service.IExportService
}

func NewExportController(exportService service.IExportService) IExportController {
	return &exportController{
		exportService: exportService,
	}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/export/v1")
	h.Post("docx", c.Docx)
	h.Post("pdf", c.Pdf)
	h.Post("html", c.Html)
	h.Post("markdown", c.Markdown)
}

type exportFunc func(ctx *fiber.Ctx, req *dto.ExportRequest) (*dto.ExportResult, error)

// handle parses/validates the body, runs the export, and streams the file.
func (c *exportController) handle(ctx *fiber.Ctx, export exportFunc) error {
	var req dto.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := export(ctx, &req)
	if err != nil {
		// Empty document is the one fatal input error (422, no partial work).
		if errors.Is(err, service.ErrEmptyDocument) {
			return ctx.Status(fiber.StatusUnprocessableEntity).
				JSON(serverutils.ErrorResponse(fiber.StatusUnprocessableEntity, "Markdown body is empty"))
		}
		return err
	}

	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, res.FileName))
	ctx.Set(fiber.HeaderContentType, res.ContentType)
	if res.FailedDiagrams > 0 {
		ctx.Set("X-Failed-Diagrams", fmt.Sprintf("%d", res.FailedDiagrams))
	}
	return ctx.Send(res.Data)
}

func (c *exportController) Docx(ctx *fiber.Ctx) error {
	return c.handle(ctx, func(fc *fiber.Ctx, req *dto.ExportRequest) (*dto.ExportResult, error) {
		return c.exportService.ExportDocx(fc.Context(), req)
	})
}

func (c *exportController) Pdf(ctx *fiber.Ctx) error {
	return c.handle(ctx, func(fc *fiber.Ctx, req *dto.ExportRequest) (*dto.ExportResult, error) {
		return c.exportService.ExportPdf(fc.Context(), req)
	})
}

func (c *exportController) Html(ctx *fiber.Ctx) error {
	return c.handle(ctx, func(fc *fiber.Ctx, req *dto.ExportRequest) (*dto.ExportResult, error) {
		return c.exportService.ExportHtml(fc.Context(), req)
	})
}

func (c *exportController) Markdown(ctx *fiber.Ctx) error {
	return c.handle(ctx, func(fc *fiber.Ctx, req *dto.ExportRequest) (*dto.ExportResult, error) {
		return c.exportService.ExportMarkdown(fc.Context(), req)
	})
}
