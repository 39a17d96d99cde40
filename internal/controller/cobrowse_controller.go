package controller

import (
	"member-chat-be/internal/dto"
	"member-chat-be/internal/pkg/serverutils"
	"member-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CobrowseController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type cobrowseController struct {
	chatService service.ChatService
}

func NewCobrowseController(chatService service.ChatService) CobrowseController {
	return &cobrowseController{
		chatService: chatService,
	}
}

func (c *cobrowseController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	cb := api.Group("/cobrowse", jwtMiddleware)
	cb.Get("/", c.GetState)
	cb.Post("/request", c.RequestCobrowse)
	cb.Post("/consent", c.Consent)
	cb.Post("/active", c.MarkActive)
	cb.Delete("/", c.EndCobrowse)
}

// GetState reports the current cobrowse state machine position
// @Summary Get cobrowse state
// @Tags Cobrowse
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CobrowseStateResponse
// @Router /api/cobrowse [get]
func (c *cobrowseController) GetState(ctx *fiber.Ctx) error {
	resp, err := c.chatService.CobrowseState(ctx.Context(), serverutils.MemberId(ctx))
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Cobrowse state retrieved", resp))
}

// RequestCobrowse shows the consent prompt; no network call yet
// @Summary Request a cobrowse session
// @Tags Cobrowse
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CobrowseStateResponse
// @Router /api/cobrowse/request [post]
func (c *cobrowseController) RequestCobrowse(ctx *fiber.Ctx) error {
	resp, err := c.chatService.RequestCobrowse(ctx.Context(), serverutils.MemberId(ctx))
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Cobrowse requested", resp))
}

// Consent accepts or declines the prompt; acceptance creates the session
// @Summary Answer the cobrowse consent prompt
// @Tags Cobrowse
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} dto.CobrowseStateResponse
// @Router /api/cobrowse/consent [post]
func (c *cobrowseController) Consent(ctx *fiber.Ctx) error {
	var req dto.CobrowseConsentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	resp, err := c.chatService.ConsentCobrowse(ctx.Context(), serverutils.MemberId(ctx), req.Accept)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Consent recorded", resp))
}

// MarkActive records the external join signal promoting Pending to Active
// @Summary Mark the cobrowse session active
// @Tags Cobrowse
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CobrowseStateResponse
// @Router /api/cobrowse/active [post]
func (c *cobrowseController) MarkActive(ctx *fiber.Ctx) error {
	resp, err := c.chatService.ActivateCobrowse(ctx.Context(), serverutils.MemberId(ctx))
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Cobrowse active", resp))
}

// EndCobrowse tears the session down; teardown failures are logged, not returned
// @Summary End the cobrowse session
// @Tags Cobrowse
// @Security BearerAuth
// @Produce json
// @Router /api/cobrowse [delete]
func (c *cobrowseController) EndCobrowse(ctx *fiber.Ctx) error {
	if err := c.chatService.EndCobrowse(ctx.Context(), serverutils.MemberId(ctx)); err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Cobrowse ended", nil))
}
