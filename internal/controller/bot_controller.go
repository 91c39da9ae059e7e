package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/molinerisit/wa-bot-sheets/internal/dto"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/serverutils"
	"github.com/molinerisit/wa-bot-sheets/internal/service"
)

type IBotController interface {
	RegisterRoutes(r fiber.Router)
	Message(ctx *fiber.Ctx) error
}

type botController struct {
	chatbot service.IChatbotService
}

func NewBotController(chatbot service.IChatbotService) IBotController {
	return &botController{chatbot: chatbot}
}

func (c *botController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bot/v1")
	h.Post("/message", c.Message)
}

// Message runs one turn synchronously and returns the reply instead of
// sending it through the gateway.
func (c *botController) Message(ctx *fiber.Ctx) error {
	var req dto.BotMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbot.Reply(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reply generated", res))
}
