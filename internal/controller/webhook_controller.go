package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/molinerisit/wa-bot-sheets/internal/dto"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/service"
	"github.com/molinerisit/wa-bot-sheets/pkg/webhook"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Evolution(ctx *fiber.Ctx) error
}

type webhookController struct {
	extractor *webhook.Extractor
	publisher service.IPublisherService
	logger    logger.ILogger
}

func NewWebhookController(extractor *webhook.Extractor, publisher service.IPublisherService, log logger.ILogger) IWebhookController {
	return &webhookController{extractor: extractor, publisher: publisher, logger: log}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Post("/evolution", c.Evolution)
}

// Evolution always answers 200 so the gateway does not retry; rejected
// events are only logged.
func (c *webhookController) Evolution(ctx *fiber.Ctx) error {
	envs, err := c.extractor.Extract(ctx.Body())
	if err != nil {
		c.logger.Warn("Webhook", "Payload rejected", map[string]interface{}{"error": err.Error()})
		return ctx.JSON(dto.WebhookResponse{Status: "received"})
	}

	accepted := 0
	now := time.Now()
	for _, env := range envs {
		msg := dto.InboundMessage{
			Channel:    env.Channel,
			UserID:     env.From,
			MessageID:  env.MessageID,
			Text:       env.Text,
			Strategy:   env.Strategy,
			ReceivedAt: now,
		}
		if err := c.publisher.Publish(ctx.UserContext(), msg); err != nil {
			c.logger.Error("Webhook", "Failed to enqueue message", map[string]interface{}{
				"user_id":    env.From,
				"message_id": env.MessageID,
				"error":      err.Error(),
			})
			continue
		}
		accepted++
	}

	return ctx.JSON(dto.WebhookResponse{Status: "received", Accepted: accepted})
}
