package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
)

type IntentRequest struct {
	Name     string   `json:"name" validate:"required"`
	Phrases  []string `json:"phrases"`
	Position int      `json:"position"`
}

func (r IntentRequest) ToEntity(id uuid.UUID) *entity.Intent {
	return &entity.Intent{Id: id, Name: r.Name, Phrases: r.Phrases, Position: r.Position}
}

type IntentResponse struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phrases  []string  `json:"phrases"`
	Position int       `json:"position"`
}

func NewIntentResponse(e *entity.Intent) interface{} {
	return IntentResponse{Id: e.Id, Name: e.Name, Phrases: nonNil(e.Phrases), Position: e.Position}
}

type SynonymRequest struct {
	Canonical string   `json:"canonical" validate:"required"`
	Variants  []string `json:"variants" validate:"required,min=1,dive,required"`
}

func (r SynonymRequest) ToEntity(id uuid.UUID) *entity.Synonym {
	return &entity.Synonym{Id: id, Canonical: r.Canonical, Variants: r.Variants}
}

type SynonymResponse struct {
	Id        uuid.UUID `json:"id"`
	Canonical string    `json:"canonical"`
	Variants  []string  `json:"variants"`
}

func NewSynonymResponse(e *entity.Synonym) interface{} {
	return SynonymResponse{Id: e.Id, Canonical: e.Canonical, Variants: nonNil(e.Variants)}
}

type CategoryRequest struct {
	Name     string `json:"name" validate:"required"`
	Position int    `json:"position"`
}

func (r CategoryRequest) ToEntity(id uuid.UUID) *entity.Category {
	return &entity.Category{Id: id, Name: r.Name, Position: r.Position}
}

type CategoryResponse struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position int       `json:"position"`
}

func NewCategoryResponse(e *entity.Category) interface{} {
	return CategoryResponse{Id: e.Id, Name: e.Name, Position: e.Position}
}

type RoleRequest struct {
	Name         string   `json:"name" validate:"required"`
	Capabilities []string `json:"capabilities"`
}

func (r RoleRequest) ToEntity(id uuid.UUID) *entity.Role {
	return &entity.Role{Id: id, Name: r.Name, Capabilities: r.Capabilities}
}

type RoleResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Capabilities []string  `json:"capabilities"`
}

func NewRoleResponse(e *entity.Role) interface{} {
	return RoleResponse{Id: e.Id, Name: e.Name, Capabilities: nonNil(e.Capabilities)}
}

type BusinessHourRequest struct {
	Weekday int    `json:"weekday" validate:"min=0,max=6"`
	Open    string `json:"open" validate:"required,hhmm"`
	Close   string `json:"close" validate:"required,hhmm"`
}

func (r BusinessHourRequest) ToEntity(id uuid.UUID) *entity.BusinessHour {
	return &entity.BusinessHour{Id: id, Weekday: r.Weekday, Open: r.Open, Close: r.Close}
}

type BusinessHourResponse struct {
	Id      uuid.UUID `json:"id"`
	Weekday int       `json:"weekday"`
	Open    string    `json:"open"`
	Close   string    `json:"close"`
}

func NewBusinessHourResponse(e *entity.BusinessHour) interface{} {
	return BusinessHourResponse{Id: e.Id, Weekday: e.Weekday, Open: e.Open, Close: e.Close}
}

type ProductRequest struct {
	SKU          string   `json:"sku" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Variant      string   `json:"variant"`
	Price        float64  `json:"price" validate:"gte=0"`
	QtyAvailable int      `json:"qty_available" validate:"gte=0"`
	Categories   []string `json:"categories"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url"`
	Active       *bool    `json:"active"`
}

func (r ProductRequest) ToEntity(id uuid.UUID) *entity.Product {
	return &entity.Product{
		Id:           id,
		SKU:          r.SKU,
		Name:         r.Name,
		Variant:      r.Variant,
		Price:        r.Price,
		QtyAvailable: r.QtyAvailable,
		Categories:   r.Categories,
		ImageURL:     r.ImageURL,
		Active:       r.Active == nil || *r.Active,
	}
}

type ProductResponse struct {
	Id           uuid.UUID  `json:"id"`
	SKU          string     `json:"sku"`
	Name         string     `json:"name"`
	Variant      string     `json:"variant,omitempty"`
	Price        float64    `json:"price"`
	QtyAvailable int        `json:"qty_available"`
	Categories   []string   `json:"categories"`
	ImageURL     string     `json:"image_url,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func NewProductResponse(e *entity.Product) interface{} {
	return ProductResponse{
		Id:           e.Id,
		SKU:          e.SKU,
		Name:         e.Name,
		Variant:      e.Variant,
		Price:        e.Price,
		QtyAvailable: e.QtyAvailable,
		Categories:   nonNil(e.Categories),
		ImageURL:     e.ImageURL,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

type PricingRuleRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	DiscountPct float64 `json:"discount_pct" validate:"gt=0,lte=100"`
	Position    int     `json:"position"`
	Active      *bool   `json:"active"`
}

func (r PricingRuleRequest) ToEntity(id uuid.UUID) *entity.PricingRule {
	return &entity.PricingRule{
		Id:          id,
		Name:        r.Name,
		Category:    r.Category,
		DiscountPct: r.DiscountPct,
		Position:    r.Position,
		Active:      r.Active == nil || *r.Active,
	}
}

type PricingRuleResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	DiscountPct float64   `json:"discount_pct"`
	Position    int       `json:"position"`
	Active      bool      `json:"active"`
}

func NewPricingRuleResponse(e *entity.PricingRule) interface{} {
	return PricingRuleResponse{
		Id:          e.Id,
		Name:        e.Name,
		Category:    e.Category,
		DiscountPct: e.DiscountPct,
		Position:    e.Position,
		Active:      e.Active,
	}
}

type AgendaSlotRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,hhmm"`
	Capacity int    `json:"capacity" validate:"gte=0"`
	Booked   int    `json:"booked" validate:"gte=0"`
}

func (r AgendaSlotRequest) ToEntity(id uuid.UUID) *entity.AgendaSlot {
	return &entity.AgendaSlot{Id: id, Date: r.Date, Time: r.Time, Capacity: r.Capacity, Booked: r.Booked}
}

type AgendaSlotResponse struct {
	Id        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Capacity  int       `json:"capacity"`
	Booked    int       `json:"booked"`
	Remaining int       `json:"remaining"`
}

func NewAgendaSlotResponse(e *entity.AgendaSlot) interface{} {
	return AgendaSlotResponse{
		Id:        e.Id,
		Date:      e.Date,
		Time:      e.Time,
		Capacity:  e.Capacity,
		Booked:    e.Booked,
		Remaining: e.Remaining(),
	}
}

type ReservationResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    string    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	People    int       `json:"people"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewReservationResponse(e *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		Id:        e.Id,
		UserId:    e.UserId,
		Name:      e.Name,
		Phone:     e.Phone,
		Date:      e.Date,
		Time:      e.Time,
		People:    e.People,
		Notes:     e.Notes,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

type ReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type ExternalDBRequest struct {
	URL        string   `json:"url"`
	AllowedSQL []string `json:"allowed_sql"`
}

type ExternalDBResponse struct {
	URL        string   `json:"url"`
	Configured bool     `json:"configured"`
	AllowedSQL []string `json:"allowed_sql"`
}

type AdminTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
