package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/serverutils"
	internalWS "github.com/molinerisit/wa-bot-sheets/internal/websocket"
)

// MonitorHandler streams handled turns to admin dashboards.
type MonitorHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewMonitorHandler(hub *internalWS.Hub, log logger.ILogger) *MonitorHandler {
	return &MonitorHandler{hub: hub, logger: log}
}

// ServeWs expects the admin middleware to have run already.
func (h *MonitorHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("MonitorHandler", "Starting monitor session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(h.hub, conn)
		h.logger.Info("MonitorHandler", "Monitor session ended", nil)
	})(c)
}

// Status reports how many dashboards are attached.
func (h *MonitorHandler) Status(c *fiber.Ctx) error {
	return c.JSON(serverutils.SuccessResponse("Monitor status", fiber.Map{"clients": h.hub.ClientCount()}))
}

func (h *MonitorHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/monitor", h.Status)
	router.Get("/monitor/ws", h.ServeWs)
}
