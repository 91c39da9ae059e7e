package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
}

type healthController struct {
	started time.Time
}

func NewHealthController() IHealthController {
	return &healthController{started: time.Now()}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"ok":     true,
			"uptime": time.Since(c.started).Round(time.Second).String(),
		})
	})
}
