package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/serverutils"
	"github.com/molinerisit/wa-bot-sheets/internal/service"
)

type entityRequest[E any] interface {
	ToEntity(id uuid.UUID) *E
}

// mountResource registers list/get/create/update/delete for one admin table.
func mountResource[E any, R entityRequest[E]](r fiber.Router, path string, svc *service.CrudService[E], present func(*E) interface{}) {
	r.Get(path, func(ctx *fiber.Ctx) error {
		items, err := svc.List(ctx.UserContext())
		if err != nil {
			return err
		}
		out := make([]interface{}, len(items))
		for i, it := range items {
			out[i] = present(it)
		}
		return ctx.JSON(serverutils.SuccessResponse("List", out))
	})

	r.Get(path+"/:id", func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx)
		if err != nil {
			return err
		}
		e, err := svc.Get(ctx.UserContext(), id)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Detail", present(e)))
	})

	r.Post(path, func(ctx *fiber.Ctx) error {
		req, err := bindRequest[R](ctx)
		if err != nil {
			return err
		}
		e := req.ToEntity(uuid.New())
		if err := svc.Create(ctx.UserContext(), e); err != nil {
			return err
		}
		return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Created", present(e)))
	})

	r.Put(path+"/:id", func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx)
		if err != nil {
			return err
		}
		req, err := bindRequest[R](ctx)
		if err != nil {
			return err
		}
		if err := svc.Update(ctx.UserContext(), req.ToEntity(id)); err != nil {
			return err
		}
		e, err := svc.Get(ctx.UserContext(), id)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Updated", present(e)))
	})

	r.Delete(path+"/:id", func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx)
		if err != nil {
			return err
		}
		if err := svc.Delete(ctx.UserContext(), id); err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Deleted", nil))
	})
}

func bindRequest[R any](ctx *fiber.Ctx) (R, error) {
	var req R
	if err := ctx.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return req, err
	}
	return req, nil
}
