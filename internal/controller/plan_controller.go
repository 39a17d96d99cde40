package controller

import (
	"member-chat-be/internal/dto"
	"member-chat-be/internal/pkg/serverutils"
	"member-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PlanController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type planController struct {
	chatService service.ChatService
}

func NewPlanController(chatService service.ChatService) PlanController {
	return &planController{
		chatService: chatService,
	}
}

func (c *planController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	plans := api.Group("/plans", jwtMiddleware)
	plans.Get("/", c.GetPlans)
	plans.Post("/switch", c.SwitchPlan)
	plans.Get("/:id/terms", c.GetTerms)
}

// GetPlans returns the member's plan list in eligibility-source order
// @Summary Get available plans
// @Description Returns all plans regardless of chat eligibility; callers filter
// @Tags Plans
// @Security BearerAuth
// @Produce json
// @Success 200 {object} []dto.PlanResponse
// @Router /api/plans [get]
func (c *planController) GetPlans(ctx *fiber.Ctx) error {
	plans, err := c.chatService.Plans(ctx.Context(), serverutils.MemberId(ctx))
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved", plans))
}

// SwitchPlan moves the current-plan pointer; rejected while the lock is held
// @Summary Switch the current plan
// @Tags Plans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Router /api/plans/switch [post]
func (c *planController) SwitchPlan(ctx *fiber.Ctx) error {
	var req dto.SwitchPlanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := c.chatService.SwitchPlan(ctx.Context(), serverutils.MemberId(ctx), req.PlanId); err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan switched", nil))
}

// GetTerms returns the plan's terms and conditions text
// @Summary Get plan terms and conditions
// @Tags Plans
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.TermsResponse
// @Router /api/plans/{id}/terms [get]
func (c *planController) GetTerms(ctx *fiber.Ctx) error {
	resp, err := c.chatService.Terms(ctx.Context(), serverutils.MemberId(ctx), ctx.Params("id"))
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Terms retrieved", resp))
}
