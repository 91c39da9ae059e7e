package mapper

import (
	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/model"
)

type AgendaMapper struct{}

func NewAgendaMapper() *AgendaMapper {
	return &AgendaMapper{}
}

func (m *AgendaMapper) SlotToEntity(e *model.AgendaSlot) *entity.AgendaSlot {
	if e == nil {
		return nil
	}
	return &entity.AgendaSlot{Id: e.Id, Date: e.Date, Time: e.Time, Capacity: e.Capacity, Booked: e.Booked}
}

func (m *AgendaMapper) SlotToModel(e *entity.AgendaSlot) *model.AgendaSlot {
	if e == nil {
		return nil
	}
	return &model.AgendaSlot{Id: e.Id, Date: e.Date, Time: e.Time, Capacity: e.Capacity, Booked: e.Booked}
}

func (m *AgendaMapper) ReservationToEntity(e *model.Reservation) *entity.Reservation {
	if e == nil {
		return nil
	}
	return &entity.Reservation{
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

func (m *AgendaMapper) ReservationToModel(e *entity.Reservation) *model.Reservation {
	if e == nil {
		return nil
	}
	return &model.Reservation{
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
