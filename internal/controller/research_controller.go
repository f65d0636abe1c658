package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"company-research-be/internal/dto"
	"company-research-be/internal/pkg/serverutils"
	"company-research-be/internal/repository/contract"
	"company-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IResearchController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	EditSection(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
}

type researchController struct {
	researchService service.IResearchService
}

func NewResearchController(researchService service.IResearchService) IResearchController {
	return &researchController{
		researchService: researchService,
	}
}

func (c *researchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/research/v1")
	h.Post("start", c.Start)
	h.Post("chat", c.Chat)
	h.Post("feedback", c.Feedback)
	h.Post("stream", c.Stream)
	h.Get(":id", c.Show)
	h.Get(":id/download", c.Download)
	h.Put(":id/section", c.EditSection)
}

func (c *researchController) Start(ctx *fiber.Ctx) error {
	var req dto.StartResearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.researchService.StartResearch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start research", res))
}

func (c *researchController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.researchService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat with agent", res))
}

func (c *researchController) Feedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.researchService.GenerateFeedback(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate feedback", res))
}

func (c *researchController) EditSection(ctx *fiber.Ctx) error {
	var req dto.EditSectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.ConversationId = ctx.Params("id")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.researchService.EditSection(ctx.Context(), &req)
	if errors.Is(err, contract.ErrConversationNotFound) {
		return serverutils.NewApiError(fiber.StatusNotFound, "Invalid or expired conversation ID.")
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success edit section", res))
}

func (c *researchController) Show(ctx *fiber.Ctx) error {
	res, err := c.researchService.GetConversation(ctx.Context(), ctx.Params("id"))
	if errors.Is(err, contract.ErrConversationNotFound) {
		return serverutils.NewApiError(fiber.StatusNotFound, "Invalid or expired conversation ID.")
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *researchController) Download(ctx *fiber.Ctx) error {
	fileName, report, err := c.researchService.BuildReport(ctx.Context(), ctx.Params("id"))
	if errors.Is(err, contract.ErrConversationNotFound) {
		return serverutils.NewApiError(fiber.StatusNotFound, "Invalid conversation id")
	}
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return ctx.SendString(report)
}

// Stream replays the research pipeline as server-sent events. The request
// context ends with the HTTP exchange, so the pipeline runs on a detached
// context and stops at its own pace when the client goes away.
func (c *researchController) Stream(ctx *fiber.Ctx) error {
	var req dto.StartResearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	frames := c.researchService.StreamResearch(context.Background(), &req)

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for frame := range frames {
			if _, err := w.WriteString(frame); err != nil {
				// Client disconnected; drain the channel so the producer exits
				for range frames {
				}
				return
			}
			if err := w.Flush(); err != nil {
				for range frames {
				}
				return
			}
		}
	}))

	return nil
}
