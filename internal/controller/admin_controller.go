package controller

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/molinerisit/wa-bot-sheets/internal/dto"
	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/serverutils"
	"github.com/molinerisit/wa-bot-sheets/internal/service"
	"github.com/molinerisit/wa-bot-sheets/pkg/externaldb"
	"github.com/molinerisit/wa-bot-sheets/pkg/rag"
)

// RagDocuments is the part of the RAG service the admin surface manages.
type RagDocuments interface {
	Ingest(ctx context.Context, req rag.IngestRequest) (*rag.IngestResult, error)
	ListDocuments(ctx context.Context) ([]rag.Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

type IAdminController interface {
	RegisterRoutes(r fiber.Router)

	GetConfig(ctx *fiber.Ctx) error
	SetConfig(ctx *fiber.Ctx) error
	DeleteConfig(ctx *fiber.Ctx) error

	GetReservations(ctx *fiber.Ctx) error
	UpdateReservationStatus(ctx *fiber.Ctx) error

	GetRagDocuments(ctx *fiber.Ctx) error
	IngestRagDocument(ctx *fiber.Ctx) error
	DeleteRagDocument(ctx *fiber.Ctx) error

	GetExternalDB(ctx *fiber.Ctx) error
	SetExternalDB(ctx *fiber.Ctx) error

	IssueToken(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	service      service.IAdminService
	resources    *service.AdminResources
	reservations service.IReservationService
	rag          RagDocuments
	creds        serverutils.AdminCredentials
	extra        []func(fiber.Router)
}

func NewAdminController(
	adminService service.IAdminService,
	resources *service.AdminResources,
	reservations service.IReservationService,
	ragDocs RagDocuments,
	creds serverutils.AdminCredentials,
	extra ...func(fiber.Router),
) IAdminController {
	return &adminController{
		service:      adminService,
		resources:    resources,
		reservations: reservations,
		rag:          ragDocs,
		creds:        creds,
		extra:        extra,
	}
}

// RegisterRoutes mounts everything under /admin/v1 behind the admin
// middleware. extra lets other handlers (the monitor) share the group.
func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1", serverutils.AdminMiddleware(c.creds))

	h.Get("/config", c.GetConfig)
	h.Post("/config", c.SetConfig)
	h.Delete("/config/:key", c.DeleteConfig)

	mountResource[entity.Intent, dto.IntentRequest](h, "/intents", c.resources.Intents, dto.NewIntentResponse)
	mountResource[entity.Synonym, dto.SynonymRequest](h, "/synonyms", c.resources.Synonyms, dto.NewSynonymResponse)
	mountResource[entity.Category, dto.CategoryRequest](h, "/categories", c.resources.Categories, dto.NewCategoryResponse)
	mountResource[entity.Role, dto.RoleRequest](h, "/roles", c.resources.Roles, dto.NewRoleResponse)
	mountResource[entity.BusinessHour, dto.BusinessHourRequest](h, "/business-hours", c.resources.BusinessHours, dto.NewBusinessHourResponse)
	mountResource[entity.Product, dto.ProductRequest](h, "/products", c.resources.Products, dto.NewProductResponse)
	mountResource[entity.PricingRule, dto.PricingRuleRequest](h, "/rules", c.resources.Rules, dto.NewPricingRuleResponse)
	mountResource[entity.AgendaSlot, dto.AgendaSlotRequest](h, "/slots", c.resources.Slots, dto.NewAgendaSlotResponse)

	h.Get("/reservations", c.GetReservations)
	h.Patch("/reservations/:id/status", c.UpdateReservationStatus)

	h.Get("/rag/documents", c.GetRagDocuments)
	h.Post("/rag/documents", c.IngestRagDocument)
	h.Delete("/rag/documents/:id", c.DeleteRagDocument)

	h.Get("/external-db", c.GetExternalDB)
	h.Put("/external-db", c.SetExternalDB)

	h.Post("/token", c.IssueToken)
	h.Get("/logs", c.GetLogs)

	for _, mount := range c.extra {
		mount(h)
	}
}

func (c *adminController) GetConfig(ctx *fiber.Ctx) error {
	values, err := c.service.GetConfig(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Config", values))
}

// SetConfig upserts every key of the body; keys not present are untouched.
func (c *adminController) SetConfig(ctx *fiber.Ctx) error {
	var values map[string]string
	if err := ctx.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body must be an object of string values")
	}
	if err := c.service.SetConfig(ctx.UserContext(), values); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Config updated", nil))
}

func (c *adminController) DeleteConfig(ctx *fiber.Ctx) error {
	if err := c.service.DeleteConfig(ctx.UserContext(), ctx.Params("key")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Config key deleted", nil))
}

func (c *adminController) GetReservations(ctx *fiber.Ctx) error {
	list, err := c.reservations.List(ctx.UserContext(), ctx.Query("date"), ctx.Query("status"))
	if err != nil {
		return err
	}
	out := make([]dto.ReservationResponse, len(list))
	for i, r := range list {
		out[i] = dto.NewReservationResponse(r)
	}
	return ctx.JSON(serverutils.SuccessResponse("Reservations", out))
}

func (c *adminController) UpdateReservationStatus(ctx *fiber.Ctx) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var req dto.ReservationStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if err := c.reservations.UpdateStatus(ctx.UserContext(), id, req.Status); err != nil {
		return badRequestOn(err, service.ErrInvalidStatus)
	}
	return ctx.JSON(serverutils.SuccessResponse("Reservation updated", nil))
}

var errRagDisabled = fiber.NewError(fiber.StatusServiceUnavailable, "Document store is not configured")

func (c *adminController) GetRagDocuments(ctx *fiber.Ctx) error {
	if c.rag == nil {
		return errRagDisabled
	}
	docs, err := c.rag.ListDocuments(ctx.UserContext())
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []rag.Document{}
	}
	return ctx.JSON(serverutils.SuccessResponse("Documents", docs))
}

func (c *adminController) IngestRagDocument(ctx *fiber.Ctx) error {
	if c.rag == nil {
		return errRagDisabled
	}
	var req rag.IngestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	res, err := c.rag.Ingest(ctx.UserContext(), req)
	if err != nil {
		return badRequestOn(err, rag.ErrEmptyDocument)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Document ingested", res))
}

func (c *adminController) DeleteRagDocument(ctx *fiber.Ctx) error {
	if c.rag == nil {
		return errRagDisabled
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err := c.rag.DeleteDocument(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document deleted", nil))
}

func (c *adminController) GetExternalDB(ctx *fiber.Ctx) error {
	s, err := c.service.GetExternalDB(ctx.UserContext())
	if err != nil {
		return err
	}
	allowed := s.AllowedSQL
	if allowed == nil {
		allowed = []string{}
	}
	return ctx.JSON(serverutils.SuccessResponse("External database", dto.ExternalDBResponse{
		URL:        redactDSN(s.URL),
		Configured: s.URL != "",
		AllowedSQL: allowed,
	}))
}

func (c *adminController) SetExternalDB(ctx *fiber.Ctx) error {
	var req dto.ExternalDBRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	err := c.service.SetExternalDB(ctx.UserContext(), externaldb.Settings{URL: req.URL, AllowedSQL: req.AllowedSQL})
	if err != nil {
		return badRequestOn(err, externaldb.ErrQueryNotAllowed)
	}
	return ctx.JSON(serverutils.SuccessResponse("External database updated", nil))
}

func (c *adminController) IssueToken(ctx *fiber.Ctx) error {
	token, exp, err := serverutils.IssueAdminToken(c.creds.JWTSecret, time.Now())
	if errors.Is(err, serverutils.ErrJWTDisabled) {
		return fiber.NewError(fiber.StatusNotImplemented, "JWT issuing is disabled")
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Token issued", dto.AdminTokenResponse{Token: token, ExpiresAt: exp}))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	entries, err := c.service.ReadLogs(ctx.Query("level"), ctx.QueryInt("limit", 50), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logs", entries))
}

func paramID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}

func badRequestOn(err error, targets ...error) error {
	for _, t := range targets {
		if errors.Is(err, t) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	return err
}

// redactDSN hides the password of URL-style DSNs; key=value DSNs are not
// echoed at all.
func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return ""
	}
	return u.Redacted()
}
