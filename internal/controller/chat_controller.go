package controller

import (
	"member-chat-be/internal/dto"
	"member-chat-be/internal/pkg/serverutils"
	"member-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ChatController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type chatController struct {
	chatService service.ChatService
}

func NewChatController(chatService service.ChatService) ChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	chat := api.Group("/chat", jwtMiddleware)

	chat.Get("/availability", c.GetAvailability)
	chat.Post("/open", c.OpenChat)
	chat.Post("/start", c.StartChat)
	chat.Post("/message", c.SendMessage)
	chat.Get("/session", c.GetSession)
	chat.Delete("/session", c.EndChat)

	member := api.Group("/member", jwtMiddleware)
	member.Post("/context", c.LoadMemberContext)
}

// LoadMemberContext stores the shell-provided eligibility snapshot
// @Summary Load member context
// @Description Installs the member's eligibility and plan list for this portal session
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Router /api/member/context [post]
func (c *chatController) LoadMemberContext(ctx *fiber.Ctx) error {
	var req dto.MemberContextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := c.chatService.LoadMemberContext(ctx.Context(), serverutils.MemberId(ctx), &req); err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Member context loaded", nil))
}

// GetAvailability reports open/closed plus the single source of truth message
// @Summary Get chat availability
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AvailabilityResponse
// @Router /api/chat/availability [get]
func (c *chatController) GetAvailability(ctx *fiber.Ctx) error {
	resp, err := c.chatService.Availability(ctx.Context(), serverutils.MemberId(ctx))
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Availability retrieved", resp))
}

// OpenChat opens the widget (or reports the unavailable branch)
// @Summary Open the chat widget
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ChatStateResponse
// @Router /api/chat/open [post]
func (c *chatController) OpenChat(ctx *fiber.Ctx) error {
	resp, err := c.chatService.OpenChat(ctx.Context(), serverutils.MemberId(ctx))
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat opened", resp))
}

// StartChat validates the inquiry form and creates the session
// @Summary Start a chat session
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} dto.ChatSessionResponse
// @Router /api/chat/start [post]
func (c *chatController) StartChat(ctx *fiber.Ctx) error {
	var req dto.StartChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	resp, err := c.chatService.StartChat(ctx.Context(), serverutils.MemberId(ctx), &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat session started", resp))
}

// SendMessage appends a message to the active session
// @Summary Send a chat message
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} dto.ChatMessageResponse
// @Router /api/chat/message [post]
func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	resp, err := c.chatService.SendMessage(ctx.Context(), serverutils.MemberId(ctx), &req)
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Message sent", resp))
}

// GetSession returns the current session with its message history
// @Summary Get the active chat session
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ChatSessionResponse
// @Router /api/chat/session [get]
func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	resp, err := c.chatService.Session(ctx.Context(), serverutils.MemberId(ctx))
	if err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session retrieved", resp))
}

// EndChat ends the session, releases the plan lock, resets cobrowse
// @Summary End the chat session
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Router /api/chat/session [delete]
func (c *chatController) EndChat(ctx *fiber.Ctx) error {
	if err := c.chatService.EndChat(ctx.Context(), serverutils.MemberId(ctx)); err != nil {
		code := statusFor(err)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat session ended", nil))
}
