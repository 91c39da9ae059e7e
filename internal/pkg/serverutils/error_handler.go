package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/contract"
)

// ErrorHandler is installed as fiber.Config.ErrorHandler.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if fields, ok := validationFields(err); ok {
			return ctx.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse(fields))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		if errors.Is(err, contract.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, "Not found"))
		}

		if log != nil {
			log.Error("HTTP", "Unhandled request error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}

// ErrorHandlerMiddleware catches panics in handlers and reports them as 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if log != nil {
					log.Error("HTTP", "Handler panicked", map[string]interface{}{"path": ctx.Path(), "panic": r})
				}
				err = fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
			}
		}()
		return ctx.Next()
	}
}
