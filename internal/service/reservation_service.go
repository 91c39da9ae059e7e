package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
	"github.com/molinerisit/wa-bot-sheets/pkg/chatbot"
	"github.com/molinerisit/wa-bot-sheets/pkg/events"
	"github.com/molinerisit/wa-bot-sheets/pkg/nats"
	"github.com/molinerisit/wa-bot-sheets/pkg/store"
)

var (
	ErrSlotNotFound  = errors.New("reservation: no agenda slot at that date and time")
	ErrSlotFull      = errors.New("reservation: slot has no room for that many people")
	ErrInvalidStatus = errors.New("reservation: unknown status")
)

// Availability reasons.
const (
	ReasonNoSlot = "no_slot_defined"
	ReasonFull   = "full"
)

type IReservationService interface {
	chatbot.Agenda
	List(ctx context.Context, date, status string) ([]*entity.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type reservationService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  nats.EventPublisher
	log        logger.ILogger
}

func NewReservationService(uowFactory unitofwork.RepositoryFactory, publisher nats.EventPublisher, log logger.ILogger) IReservationService {
	if publisher == nil {
		publisher = nats.NopPublisher{}
	}
	return &reservationService{uowFactory: uowFactory, publisher: publisher, log: log}
}

func (s *reservationService) CheckAvailability(ctx context.Context, date, slotTime string, people int) (chatbot.Availability, error) {
	slot, err := s.uowFactory.NewUnitOfWork(ctx).AgendaSlotRepository().FindSlot(ctx, date, slotTime)
	if err != nil {
		return chatbot.Availability{}, fmt.Errorf("find slot: %w", err)
	}
	if slot == nil {
		return chatbot.Availability{Available: false, Reason: ReasonNoSlot}, nil
	}
	remaining := slot.Remaining()
	if people > remaining {
		return chatbot.Availability{Available: false, Reason: ReasonFull, Remaining: remaining}, nil
	}
	return chatbot.Availability{Available: true, Remaining: remaining}, nil
}

// CreateReservation books the seats and writes the pending reservation in one
// transaction. The event is published after commit; a publish failure is
// only logged.
func (s *reservationService) CreateReservation(ctx context.Context, req chatbot.ReservationRequest) (*store.ReservationRef, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	slot, err := uow.AgendaSlotRepository().FindSlot(ctx, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("find slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	booked, err := uow.AgendaSlotRepository().Book(ctx, slot.Id, req.People)
	if err != nil {
		return nil, fmt.Errorf("book slot: %w", err)
	}
	if !booked {
		return nil, ErrSlotFull
	}

	r := &entity.Reservation{
		Id:     uuid.New(),
		UserId: req.UserID,
		Name:   strings.TrimSpace(req.Name),
		Phone:  strings.TrimSpace(req.Phone),
		Date:   req.Date,
		Time:   req.Time,
		People: req.People,
		Notes:  strings.TrimSpace(req.Notes),
		Status: entity.ReservationPending,
	}
	if err := uow.ReservationRepository().Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	s.log.Info("Reservation", "Reservation created", map[string]interface{}{
		"reservation_id": r.Id.String(),
		"user_id":        r.UserId,
		"date":           r.Date,
		"time":           r.Time,
		"people":         r.People,
	})

	ev := events.ReservationCreated(r.Id.String(), r.UserId, r.Name, r.Phone, r.Date, r.Time, r.People, r.Notes)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("Reservation", "Failed to publish reservation event", map[string]interface{}{
			"reservation_id": r.Id.String(),
			"error":          err.Error(),
		})
	}

	return &store.ReservationRef{
		ID:     r.Id.String(),
		Date:   r.Date,
		Time:   r.Time,
		People: r.People,
		Status: r.Status,
	}, nil
}

func (s *reservationService) List(ctx context.Context, date, status string) ([]*entity.Reservation, error) {
	var specs []specification.Specification
	if date != "" {
		specs = append(specs, specification.OnDate{Date: date})
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}
	return s.uowFactory.NewUnitOfWork(ctx).ReservationRepository().FindAll(ctx, specs...)
}

func (s *reservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case entity.ReservationPending, entity.ReservationConfirmed, entity.ReservationCancelled:
	default:
		return ErrInvalidStatus
	}
	return s.uowFactory.NewUnitOfWork(ctx).ReservationRepository().UpdateStatus(ctx, id, status)
}
